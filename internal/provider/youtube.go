package provider

// Itags 91-96 are HLS renditions; the m3u8 selector covers streams the default pick rejects.
const youtubeFallbackFormat = "96/95/94/93/92/91/best[protocol~=m3u8]/best"

type YouTubeProvider struct{}

func NewYouTube() *YouTubeProvider {
	return &YouTubeProvider{}
}

func (yp *YouTubeProvider) Name() string {
	return "YouTube"
}

func (yp *YouTubeProvider) Family() Family {
	return YouTube
}

func (yp *YouTubeProvider) Attempts(t Target) [][]string {
	base := mergeBase(t)
	return [][]string{
		variant(base),
		variant(base, "-f", youtubeFallbackFormat),
	}
}

// mergeBase is shared by YouTube and TikTok.
func mergeBase(t Target) []string {
	args := []string{
		"--no-progress",
		"-o", t.OutputTemplate,
		t.URL,
		"--merge-output-format", "mp4",
	}
	args = append(args, referer(t.URL)...)
	return withCookies(args, t.Cookies)
}
