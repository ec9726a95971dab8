package resolver

import (
	"regexp"

	"github.com/goliatone/go-gist/pkg/interfaces"
)

// markerPattern matches <p>[gist:id=<hex>(,file=<name>)?(,filetype=<type>)?]</p>.
// The file group is lazy so a trailing ,filetype= is split off while commas
// inside the file name are kept.
var markerPattern = regexp.MustCompile(`<p>\[gist:id=([0-9a-fA-F]+)(?:,file=([^\]]+?))?(?:,filetype=([^\],]+))?\]</p>`)

// Parser extracts gist markers from rendered article HTML.
type Parser struct{}

// NewParser returns the marker parser.
func NewParser() *Parser {
	return &Parser{}
}

var _ interfaces.MarkerParser = (*Parser)(nil)

// Parse returns every non-overlapping marker in content, in order.
func (p *Parser) Parse(content string) []interfaces.Marker {
	matches := markerPattern.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return nil
	}

	markers := make([]interfaces.Marker, 0, len(matches))
	for _, m := range matches {
		markers = append(markers, interfaces.Marker{
			Raw: content[m[0]:m[1]],
			Ref: interfaces.Ref{
				ID:   content[m[2]:m[3]],
				File: optionalGroup(content, m, 2),
			},
			FileType: optionalGroup(content, m, 3),
		})
	}
	return markers
}

func optionalGroup(content string, loc []int, group int) *string {
	start, end := loc[2*group], loc[2*group+1]
	if start < 0 {
		return nil
	}
	value := content[start:end]
	return &value
}
