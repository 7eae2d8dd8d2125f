package calendar

import (
	"fmt"
	"regexp"
)

var webJoinPattern = regexp.MustCompile(`/j/(.*?)\?pwd=(.*?)$`)

// QuickJoinURL rewrites a Zoom web-join link (".../j/<id>?pwd=<pwd>") into a
// zoomus:// link the desktop can hand straight to the Zoom client. URLs of
// any other shape, including links it produced itself, report false.
func QuickJoinURL(webURL string) (string, bool) {
	m := webJoinPattern.FindStringSubmatch(webURL)
	if m == nil || m[1] == "" || m[2] == "" {
		return "", false
	}
	return fmt.Sprintf("zoomus://zoom.us/join?action=join&confno=%s&pwd=%s", m[1], m[2]), true
}
