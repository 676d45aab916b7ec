package display

import (
	"regexp"
	"strconv"

	"github.com/genricoloni/remotectl/internal/domain"
)

// Movie is a film recognized from its file name.
type Movie struct {
	Title string
	Year  int
}

func (m Movie) Heading() string    { return m.Title }
func (m Movie) FirstText() string  { return strconv.Itoa(m.Year) }
func (m Movie) SecondText() string { return "" }

var moviePatterns = []*regexp.Regexp{
	// Inception (2010), Inception [2010] 1080p
	regexp.MustCompile(`^(.+?)[\s._-]*[(\[]((?:19|20)\d{2})[)\]]`),
	// Inception.2010.1080p.BluRay
	regexp.MustCompile(`^(.+?)[\s._-]+((?:19|20)\d{2})(?:[\s._-]+.*)?$`),
}

// MovieParser recognizes "Title (2010)" and "Title.2010.tags" names.
type MovieParser struct{}

// Interpret implements Interpreter
func (MovieParser) Interpret(name string) (domain.MediaDisplayInfo, bool) {
	m, ok := ParseMovie(name)
	if !ok {
		return nil, false
	}
	return m, true
}

// ParseMovie extracts movie metadata from a raw file name or path.
func ParseMovie(name string) (Movie, bool) {
	base := BaseName(name)
	for _, p := range moviePatterns {
		m := p.FindStringSubmatch(base)
		if m == nil {
			continue
		}
		title := cleanWords(m[1])
		if title == "" {
			continue
		}
		year, _ := strconv.Atoi(m[2])
		return Movie{Title: title, Year: year}, true
	}
	return Movie{}, false
}
