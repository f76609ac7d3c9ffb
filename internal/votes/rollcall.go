package votes

import (
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/nao1215/quivotequoi/internal/model"
	"github.com/nao1215/quivotequoi/internal/reference"
	"github.com/nao1215/quivotequoi/internal/xmltree"
)

var whitespace = regexp.MustCompile(`\s+`)

// positions maps the result elements to member positions, in tally order.
var positions = []struct {
	element  string
	position model.Position
}{
	{"Result.For", model.PositionFor},
	{"Result.Against", model.PositionAgainst},
	{"Result.Abstention", model.PositionAbstention},
}

// RollCallParser reads the roll-call results document.
type RollCallParser struct{}

// Parse returns one record per RollCallVote.Result entry naming a document.
// Entries whose identifier was already seen in the sitting are skipped.
//
// A member entry is identified by its PersId attribute, or by resolving its
// text as a family name. Members unknown to pc.Members are left out of the
// positions; the tally counts everyone.
func (RollCallParser) Parse(pc *ParseContext, r io.Reader) ([]model.Vote, error) {
	if err := pc.check(); err != nil {
		return nil, err
	}
	root, err := xmltree.Parse(r)
	if err != nil {
		return nil, err
	}
	htmlURL := strings.Replace(pc.URL, ".xml", ".html", 1)

	var out []model.Vote
	for _, entry := range root.FindAll("RollCallVote.Result") {
		title := whitespace.ReplaceAllString(entry.Find("RollCallVote.Description.Text").InnerText(), " ")
		doc := pc.Refs.Doc(title)
		marker, split := reference.RollCallAmendment(title)
		c := pc.Classifier.Classify(title, marker)

		id, _ := entry.Attr("Identifier")
		if !pc.Dedup.AddRollCall(id) {
			continue
		}
		if doc == nil {
			continue
		}

		v := model.Vote{
			ID:              id,
			SittingDate:     pc.Sitting.Date,
			Date:            pc.Date,
			Doc:             *doc,
			Procedure:       reference.Procedure(title),
			SubjectRollCall: title,
			Type:            c.Type,
			Amendment:       c.Amendment,
			Split:           split,
			RollCall:        true,
			Positions:       make(map[int]model.Position),
			RollCallURL:     htmlURL,
			Source:          model.SourceRollCall,
		}
		var counts model.Tally
		for i, p := range positions {
			el := entry.Find(p.element)
			if el == nil {
				continue
			}
			if n, err := strconv.Atoi(strings.TrimSpace(el.Attrs["Number"])); err == nil {
				counts[i] = n
			}
			for _, group := range el.Children {
				for _, member := range group.Children {
					if mid, ok := pc.resolveMember(member); ok {
						v.Positions[mid] = p.position
					}
				}
			}
		}
		v.Tally = &counts
		out = append(out, v)
	}
	return out, nil
}

func (pc *ParseContext) resolveMember(n *xmltree.Node) (int, bool) {
	if pc.Members == nil {
		return 0, false
	}
	if raw, ok := n.Attr("PersId"); ok {
		id, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return 0, false
		}
		return id, pc.Members.Has(id)
	}
	id, ok := pc.Members.ByLastName(strings.TrimSpace(n.InnerText()))
	if !ok {
		return 0, false
	}
	return id, pc.Members.Has(id)
}
