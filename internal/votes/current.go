package votes

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/quivotequoi/internal/classify"
	"github.com/nao1215/quivotequoi/internal/model"
	"github.com/nao1215/quivotequoi/internal/reference"
	"github.com/nao1215/quivotequoi/internal/xmltree"
)

// titleBlock is the voting type of a heading entry carrying no vote.
const titleBlock = "TITLE"

// CurrentParser reads the votes/vote/voting schema.
type CurrentParser struct{}

// Parse implements MinutesParser.
func (CurrentParser) Parse(pc *ParseContext, r io.Reader) ([]model.Vote, error) {
	if err := pc.check(); err != nil {
		return nil, err
	}
	root, err := xmltree.Parse(r)
	if err != nil {
		return nil, err
	}
	votesEl := root
	if root.Name != "votes" {
		votesEl = root.Find("//votes")
	}
	if votesEl == nil {
		return nil, fmt.Errorf("%w: no votes element", ErrUnexpectedRoot)
	}

	var out []model.Vote
	for _, vote := range votesEl.FindAll("vote") {
		label, _ := vote.FindText("label")
		doc := pc.doc(label, "")

		for _, voting := range vote.FindAll("//voting") {
			if kind, _ := voting.Attr("type"); strings.Contains(strings.ToUpper(kind), titleBlock) {
				continue
			}
			title, _ := voting.FindText("title")
			vlabel, _ := voting.FindText("label")
			amSubject, _ := voting.FindText("amendmentSubject")
			subject := title + vlabel + amSubject
			doc = pc.doc(subject, doc)

			rcv, hasRollCall := voting.FindText("rcv/value")
			mark, hasResult := voting.Attr("result")
			amNumber, hasAmendment := voting.FindText("amendmentNumber")
			observations, _ := voting.FindText("observations")
			author, _ := voting.FindText("amendmentAuthor")

			if !pc.Dedup.AddRow(doc, []string{subject, rcv, mark, amNumber, observations, author}) {
				continue
			}
			if doc == "" || !hasResult {
				continue
			}

			var marker *string
			if hasAmendment && amNumber != "" {
				marker = &amNumber
			}
			c := pc.Classifier.Classify(subject, marker)
			if pc.skipped(doc, c.Subject) {
				continue
			}

			result, _ := classify.ParseResult(mark)
			v := model.Vote{
				SittingDate: pc.Sitting.Date,
				Date:        pc.Date,
				Doc:         doc,
				Subject:     c.Subject,
				Type:        c.Type,
				Amendment:   c.Amendment,
				Split:       reference.Split(rcv),
				RollCall:    hasRollCall && strings.Contains(rcv, "AN"),
				Result:      result,
				Tally:       tally(observations),
				URL:         pc.URL,
				Source:      model.SourceMinutes,
			}
			if author != "" {
				a := classify.ParseAuthor(author)
				v.Author = &a
			}
			out = append(out, v)
		}
	}
	return out, nil
}
