package diarize

import (
	"fmt"

	"github.com/haivivi/meetscribe/pkg/transcribe"
)

// mergeSegments walks labeled transcript segments once, in order, and folds
// each segment into the previous turn when both carry the same speaker and
// the silence between them is at most gapTolerance seconds. Extending a turn
// moves its end to the new segment's end and space-joins the text.
func mergeSegments(segments []transcribe.Segment, labels []int, gapTolerance float64) []Turn {
	var turns []Turn
	for i, seg := range segments {
		speaker := speakerName(labels[i])
		if len(turns) > 0 {
			last := &turns[len(turns)-1]
			if last.Speaker == speaker && seg.Start-last.End <= gapTolerance {
				if seg.End > last.End {
					last.End = seg.End
				}
				if seg.Text != "" {
					if last.Text != "" {
						last.Text += " "
					}
					last.Text += seg.Text
				}
				continue
			}
		}
		turns = append(turns, Turn{
			Start:   seg.Start,
			End:     seg.End,
			Speaker: speaker,
			Text:    seg.Text,
		})
	}
	return turns
}

// speakerName renders a cluster label as a display name, e.g. "SPEAKER_00".
func speakerName(label int) string {
	return fmt.Sprintf("SPEAKER_%02d", label)
}
