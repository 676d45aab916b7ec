package display

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/genricoloni/remotectl/internal/domain"
)

// Episode is a TV episode recognized from its file name.
type Episode struct {
	Show   string
	Season int
	Number int
	Title  string
}

func (e Episode) Heading() string { return e.Show }

// FirstText returns the SxxEyy label
func (e Episode) FirstText() string { return fmt.Sprintf("S%02dE%02d", e.Season, e.Number) }

func (e Episode) SecondText() string { return e.Title }

var episodePatterns = []*regexp.Regexp{
	// Show.Name.S01E02.Episode.Title
	regexp.MustCompile(`(?i)^(.+?)[\s._-]+s(\d{1,2})[\s._-]?e(\d{1,3})(?:[\s._-]+(.*))?$`),
	// Show Name 1x02 Episode Title
	regexp.MustCompile(`(?i)^(.+?)[\s._-]+(\d{1,2})x(\d{2,3})(?:[\s._-]+(.*))?$`),
}

// EpisodeParser recognizes "Show S01E02 Title" and "Show 1x02 Title" names.
type EpisodeParser struct{}

// Interpret implements Interpreter
func (EpisodeParser) Interpret(name string) (domain.MediaDisplayInfo, bool) {
	e, ok := ParseEpisode(name)
	if !ok {
		return nil, false
	}
	return e, true
}

// ParseEpisode extracts episode metadata from a raw file name or path.
func ParseEpisode(name string) (Episode, bool) {
	base := BaseName(name)
	for _, p := range episodePatterns {
		m := p.FindStringSubmatch(base)
		if m == nil {
			continue
		}
		show := cleanWords(m[1])
		if show == "" {
			continue
		}
		season, _ := strconv.Atoi(m[2])
		number, _ := strconv.Atoi(m[3])
		return Episode{
			Show:   show,
			Season: season,
			Number: number,
			Title:  cleanWords(m[4]),
		}, true
	}
	return Episode{}, false
}
