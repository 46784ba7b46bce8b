// Package highlight locates grader-cited error fragments inside the essay
// text for inline display. Matching is exact literal substring matching;
// fragments the model misquoted are silently dropped. This is best-effort
// annotation, not validation of the grading output.
package highlight

import (
	"fmt"
	"regexp"
	"strings"

	"egehub/models"
)

// Segment is one span of the essay text, either plain or attributed to
// the criterion whose cited fragment matched it. Concatenating the Text
// of all segments reproduces the input exactly.
type Segment struct {
	Text        string             `json:"text"`
	Highlighted bool               `json:"highlighted"`
	CriterionID models.CriterionID `json:"criterionId,omitempty"`
	Tooltip     string             `json:"tooltip,omitempty"`
}

type fragment struct {
	text        string
	criterionID models.CriterionID
	comment     string
}

// collectFragments gathers non-blank cited fragments in canonical K1..K10
// order, so that when two criteria cite the same literal string the
// earlier criterion wins.
func collectFragments(scores map[models.CriterionID]models.CriterionScore) []fragment {
	var fragments []fragment
	for _, id := range models.CriterionOrder {
		score, ok := scores[id]
		if !ok {
			continue
		}
		for _, cited := range score.Errors {
			if strings.TrimSpace(cited.Text) == "" {
				continue
			}
			fragments = append(fragments, fragment{
				text:        cited.Text,
				criterionID: id,
				comment:     score.Comment,
			})
		}
	}
	return fragments
}

// Reconcile splits the essay text into alternating plain and highlighted
// segments in a single left-to-right pass over one alternation pattern,
// so overlapping fragments from different criteria cannot corrupt each
// other's boundaries.
func Reconcile(essayText string, scores map[models.CriterionID]models.CriterionScore) []Segment {
	fragments := collectFragments(scores)
	if len(fragments) == 0 || essayText == "" {
		return []Segment{{Text: essayText}}
	}

	alternatives := make([]string, len(fragments))
	for i, f := range fragments {
		alternatives[i] = regexp.QuoteMeta(f.text)
	}
	re, err := regexp.Compile(strings.Join(alternatives, "|"))
	if err != nil {
		// Quoted literals always compile; treat a failure as no matches.
		return []Segment{{Text: essayText}}
	}

	var segments []Segment
	last := 0
	for _, loc := range re.FindAllStringIndex(essayText, -1) {
		if loc[0] > last {
			segments = append(segments, Segment{Text: essayText[last:loc[0]]})
		}
		matched := essayText[loc[0]:loc[1]]
		owner := ownerOf(fragments, matched)
		segments = append(segments, Segment{
			Text:        matched,
			Highlighted: true,
			CriterionID: owner.criterionID,
			Tooltip:     fmt.Sprintf("[%s] %s", owner.criterionID, owner.comment),
		})
		last = loc[1]
	}
	if last < len(essayText) {
		segments = append(segments, Segment{Text: essayText[last:]})
	}
	if len(segments) == 0 {
		return []Segment{{Text: essayText}}
	}
	return segments
}

// ownerOf returns the first fragment (in collection order) whose text
// equals the matched string.
func ownerOf(fragments []fragment, matched string) fragment {
	for _, f := range fragments {
		if f.text == matched {
			return f
		}
	}
	// Unreachable: every match is one of the quoted alternatives.
	return fragments[0]
}
