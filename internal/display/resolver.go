package display

import "github.com/genricoloni/remotectl/internal/domain"

// Kind tells which interpretation produced a Result
type Kind int

const (
	KindTrack Kind = iota
	KindEpisode
	KindMovie
)

func (k Kind) String() string {
	switch k {
	case KindEpisode:
		return "episode"
	case KindMovie:
		return "movie"
	default:
		return "track"
	}
}

// Interpreter turns a raw file name into structured display info.
// ok is false when the name does not follow the interpreter's convention.
type Interpreter interface {
	Interpret(name string) (info domain.MediaDisplayInfo, ok bool)
}

type namedInterpreter struct {
	kind Kind
	Interpreter
}

// Result is the resolved display info for a track.
// SecondText is never empty when the track has a name.
type Result struct {
	Kind   Kind
	Source domain.MediaDisplayInfo

	heading    string
	firstText  string
	secondText string
}

func (r Result) Heading() string    { return r.heading }
func (r Result) FirstText() string  { return r.firstText }
func (r Result) SecondText() string { return r.secondText }

// Text flattens the result into the view payload
func (r Result) Text() domain.DisplayText {
	return domain.DisplayText{
		Heading:    r.heading,
		FirstText:  r.firstText,
		SecondText: r.secondText,
	}
}

// Resolver picks the best display info for a track: episode naming first,
// then movie naming, then the track's own fields.
type Resolver struct {
	chain []namedInterpreter
}

// NewResolver creates a resolver with the default episode and movie parsers.
func NewResolver() *Resolver {
	return &Resolver{
		chain: []namedInterpreter{
			{kind: KindEpisode, Interpreter: EpisodeParser{}},
			{kind: KindMovie, Interpreter: MovieParser{}},
		},
	}
}

// Resolve is pure and total: it always returns a Result.
func (r *Resolver) Resolve(track domain.Track) Result {
	if track.IsVideo {
		for _, in := range r.chain {
			if info, ok := in.Interpret(track.Name); ok {
				return project(in.kind, info, track.Name)
			}
		}
	}
	return project(KindTrack, track, track.Name)
}

func project(kind Kind, info domain.MediaDisplayInfo, name string) Result {
	res := Result{
		Kind:       kind,
		Source:     info,
		heading:    info.Heading(),
		firstText:  info.FirstText(),
		secondText: info.SecondText(),
	}
	// Players report an untagged file's title as its file name
	if res.secondText == "" || (kind == KindTrack && res.secondText == fileName(name)) {
		res.secondText = BaseName(name)
	}
	return res
}
