package display

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	extension = regexp.MustCompile(`\.[A-Za-z0-9]{1,5}$`)

	// releaseTags mark the end of the human part of a release name.
	releaseTags = map[string]bool{
		"480p": true, "576p": true, "720p": true, "1080p": true, "1080i": true, "2160p": true, "4k": true,
		"hdtv": true, "web": true, "webrip": true, "webdl": true, "web-dl": true, "hdrip": true,
		"bluray": true, "bdrip": true, "brrip": true, "dvdrip": true, "dvdscr": true, "remux": true,
		"x264": true, "x265": true, "h264": true, "h265": true, "hevc": true, "xvid": true, "divx": true,
		"aac": true, "ac3": true, "dts": true, "proper": true, "repack": true, "extended": true,
		"unrated": true, "internal": true, "multi": true, "hdr": true,
	}

	separators = regexp.MustCompile(`[\s._]+`)
)

// BaseName strips the directory and the extension from a file name.
// file:// URLs are decoded to their path first.
func BaseName(name string) string {
	return extension.ReplaceAllString(fileName(name), "")
}

// fileName is the last path element of name, extension included
func fileName(name string) string {
	if strings.HasPrefix(name, "file://") {
		if u, err := url.Parse(name); err == nil {
			name = u.Path
		}
	}
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// cleanWords turns "The.Dark_Knight" into "The Dark Knight" and cuts the
// text at the first release tag.
func cleanWords(s string) string {
	words := separators.Split(strings.TrimSpace(s), -1)
	kept := make([]string, 0, len(words))
	for _, w := range words {
		if w == "" {
			continue
		}
		if releaseTags[strings.ToLower(w)] {
			break
		}
		kept = append(kept, w)
	}
	return strings.Trim(strings.Join(kept, " "), " -")
}
