package diarize

import (
	"fmt"
	"strings"
)

// Format renders turns as the diarized transcript text:
//
//	SPEAKER_00 (00:05-00:12): hello there
//
// one turn per block, blank-line separated. Timestamps switch to
// HH:MM:SS once the recording passes one hour.
func Format(turns []Turn) string {
	var b strings.Builder
	for i, t := range turns {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "%s (%s-%s): %s",
			t.Speaker, timestamp(t.Start), timestamp(t.End), t.Text)
	}
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	return b.String()
}

// timestamp renders seconds as MM:SS, or HH:MM:SS past one hour.
func timestamp(seconds float64) string {
	s := int(seconds)
	if s < 0 {
		s = 0
	}
	h := s / 3600
	m := s % 3600 / 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s%60)
	}
	return fmt.Sprintf("%02d:%02d", m, s%60)
}
