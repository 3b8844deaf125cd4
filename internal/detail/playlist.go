package detail

import (
	"fmt"
	"strings"
)

const (
	groupSeparator   = "$$$"
	episodeSeparator = "#"
	fieldSeparator   = "$"
)

// Episode is one playable entry of an item's play list.
type Episode struct {
	Group string
	Name  string
	URL   string
}

// ParsePlayList splits a vod_play_url value into episodes. Groups are
// separated by "$$$" and named by the matching part of vod_play_from;
// episodes are "name$url" pairs separated by "#".
func ParsePlayList(playFrom, playURL string) []Episode {
	if strings.TrimSpace(playURL) == "" {
		return nil
	}

	var names []string
	if playFrom != "" {
		names = strings.Split(playFrom, groupSeparator)
	}

	var episodes []Episode
	for gi, group := range strings.Split(playURL, groupSeparator) {
		groupName := fmt.Sprintf("Line %d", gi+1)
		if gi < len(names) && strings.TrimSpace(names[gi]) != "" {
			groupName = strings.TrimSpace(names[gi])
		}

		n := 0
		for _, entry := range strings.Split(group, episodeSeparator) {
			entry = strings.TrimSpace(entry)
			if entry == "" {
				continue
			}
			name, url, found := strings.Cut(entry, fieldSeparator)
			if !found {
				name, url = "", name
			}
			url = strings.TrimSpace(url)
			if url == "" {
				continue
			}
			n++
			if strings.TrimSpace(name) == "" {
				name = fmt.Sprintf("Episode %d", n)
			}
			episodes = append(episodes, Episode{Group: groupName, Name: strings.TrimSpace(name), URL: url})
		}
	}
	return episodes
}
