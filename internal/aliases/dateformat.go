package aliases

import (
	"fmt"
	"strings"
	"time"
)

// FormatDate renders t using the compact single-letter format language
// carried inside alias pattern tokens. Supported letters:
//
//	d  day, zero padded      j  day
//	m  month, zero padded    n  month
//	y  two-digit year        Y  four-digit year
//	H  hour, zero padded     G  hour
//	i  minutes, zero padded  s  seconds, zero padded
//
// Unrecognized characters pass through literally.
func FormatDate(t time.Time, format string) string {
	var b strings.Builder
	b.Grow(len(format) * 2)
	for _, r := range format {
		switch r {
		case 'd':
			b.WriteString(fmt.Sprintf("%02d", t.Day()))
		case 'j':
			b.WriteString(fmt.Sprintf("%d", t.Day()))
		case 'm':
			b.WriteString(fmt.Sprintf("%02d", int(t.Month())))
		case 'n':
			b.WriteString(fmt.Sprintf("%d", int(t.Month())))
		case 'y':
			b.WriteString(fmt.Sprintf("%02d", t.Year()%100))
		case 'Y':
			b.WriteString(fmt.Sprintf("%04d", t.Year()))
		case 'H':
			b.WriteString(fmt.Sprintf("%02d", t.Hour()))
		case 'G':
			b.WriteString(fmt.Sprintf("%d", t.Hour()))
		case 'i':
			b.WriteString(fmt.Sprintf("%02d", t.Minute()))
		case 's':
			b.WriteString(fmt.Sprintf("%02d", t.Second()))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
