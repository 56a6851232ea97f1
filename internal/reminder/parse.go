package reminder

import (
	"regexp"
	"strconv"
	"strings"
)

// DefaultTask is substituted when a message carries a time but no task text.
const DefaultTask = "宿題をやる"

// connectorCutset holds the leading particles and punctuation stripped from
// the text following a matched time expression («10時に宿題» → «宿題»).
const connectorCutset = " 　,、。をにはがってする！!?."

// Match is the tagged result of a successful time-expression extraction.
type Match struct {
	Hour   int
	Minute int
	Task   string
}

// matcher pairs a surface pattern with the capture-group indexes holding the
// hour and minute. A minute index of -1 means the pattern has no minute group
// matched and the minute defaults to 0 when the group is empty.
type matcher struct {
	name string
	re   *regexp.Regexp
}

// Patterns are tried in order; the first match wins. The localized 「H時M分」
// form deliberately outranks the colon form so that mixed inputs resolve
// against the localized expression.
var matchers = []matcher{
	{name: "jp", re: regexp.MustCompile(`([01]?\d|2[0-3])時(?:([0-5]?\d)分)?`)},
	{name: "colon", re: regexp.MustCompile(`([01]?\d|2[0-3]):([0-5]\d)`)},
}

// Extract scans free-form text for a time-of-day expression and returns the
// parsed hour, minute and remaining task description. The second return value
// is false when no pattern matched.
func Extract(text string) (Match, bool) {
	for _, m := range matchers {
		loc := m.re.FindStringSubmatchIndex(text)
		if loc == nil {
			continue
		}
		hour, err := strconv.Atoi(text[loc[2]:loc[3]])
		if err != nil {
			continue
		}
		minute := 0
		if loc[4] >= 0 {
			minute, err = strconv.Atoi(text[loc[4]:loc[5]])
			if err != nil {
				continue
			}
		}
		task := strings.TrimLeft(text[loc[1]:], connectorCutset)
		if task == "" {
			task = DefaultTask
		}
		return Match{Hour: hour, Minute: minute, Task: task}, true
	}
	return Match{}, false
}
