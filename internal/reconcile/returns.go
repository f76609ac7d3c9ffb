package reconcile

import (
	"slices"
	"strings"

	"github.com/nao1215/quivotequoi/internal/model"
)

// addReturns appends a RETURN record for every document whose debate in the
// minutes text mentions a referral to committee, unless votes already hold
// a RETURN record for it.
//
// The debate of a document starts at a paragraph containing the exact
// document reference as a text fragment and runs over the following
// paragraphs of the same block. The referral is adopted when the paragraph
// after the marker says so.
func (r *Reconciler) addReturns(sitting model.Sitting, votes []model.Vote, texts []model.MinutesText) []model.Vote {
	docs := docsOf(votes)
	for _, text := range texts {
		for _, doc := range docs {
			if hasReturn(votes, doc) {
				continue
			}
			v, ok := r.findReturn(sitting, text, doc)
			if !ok {
				continue
			}
			r.logger.Debug("adding referral from minutes text", "doc", doc, "result", v.Result, "url", text.URL)
			votes = append(votes, v)
		}
	}
	return votes
}

func (r *Reconciler) findReturn(sitting model.Sitting, text model.MinutesText, doc string) (model.Vote, bool) {
	for i, p := range text.Paragraphs {
		if !slices.Contains(p.Fragments, doc) {
			continue
		}
		lines := following(text.Paragraphs, i)
		for j, line := range lines {
			if !strings.Contains(line, r.returnMarker) {
				continue
			}
			result := model.ResultRejected
			if j+1 < len(lines) && strings.Contains(lines[j+1], r.approvedMarker) {
				result = model.ResultAdopted
			}
			return model.Vote{
				SittingDate: sitting.Date,
				Date:        text.Date,
				Doc:         doc,
				Type:        model.VoteTypeReturn,
				Result:      result,
				URL:         text.URL,
				Source:      model.SourceSynthetic,
			}, true
		}
	}
	return model.Vote{}, false
}

// following returns the lowercased text of the paragraphs after index i
// sharing its block.
func following(paragraphs []model.Paragraph, i int) []string {
	var lines []string
	for _, p := range paragraphs[i+1:] {
		if p.Block == paragraphs[i].Block {
			lines = append(lines, strings.ToLower(p.Text))
		}
	}
	return lines
}

func hasReturn(votes []model.Vote, doc string) bool {
	for _, v := range votes {
		if v.Doc == doc && v.Type == model.VoteTypeReturn {
			return true
		}
	}
	return false
}
