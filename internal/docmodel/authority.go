package docmodel

import (
	"strings"

	"github.com/vkuzmenko/citescope/internal/model"
)

// Host classification feeds the links and evidence dimensions: a
// primary-source link counts toward verifiability, a utility link never does.

var primarySourceHosts = map[string]bool{
	"wikipedia.org": true,
	"nature.com":    true,
	"science.org":   true,
	"arxiv.org":     true,
	"nih.gov":       true,
	"cdc.gov":       true,
	"who.int":       true,
	"reuters.com":   true,
	"bbc.com":       true,
	"nytimes.com":   true,
	"wsj.com":       true,
}

var primarySourceSuffixes = []string{".gov", ".edu", ".mil", ".ac.uk", ".int"}

var utilityHosts = map[string]bool{
	"facebook.com":  true,
	"twitter.com":   true,
	"x.com":         true,
	"instagram.com": true,
	"linkedin.com":  true,
	"youtube.com":   true,
	"tiktok.com":    true,
	"pinterest.com": true,
	"t.me":          true,
	"discord.gg":    true,
	"whatsapp.com":  true,
	"telegram.org":  true,
}

// ClassifyHost buckets a link destination by domain
func ClassifyHost(host string) model.LinkClass {
	host = strings.ToLower(strings.TrimPrefix(host, "www."))
	if host == "" {
		return model.LinkUnknown
	}

	if utilityHosts[host] {
		return model.LinkUtility
	}
	if primarySourceHosts[host] {
		return model.LinkPrimarySource
	}
	for registered := range primarySourceHosts {
		if strings.HasSuffix(host, "."+registered) {
			return model.LinkPrimarySource
		}
	}
	for registered := range utilityHosts {
		if strings.HasSuffix(host, "."+registered) {
			return model.LinkUtility
		}
	}
	for _, suffix := range primarySourceSuffixes {
		if strings.HasSuffix(host, suffix) {
			return model.LinkPrimarySource
		}
	}
	return model.LinkUnknown
}
