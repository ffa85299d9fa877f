package provider

const (
	DefaultInstagramUA = "Mozilla/5.0 (iPhone; CPU iPhone OS 15_5 like Mac OS X) " +
		"AppleWebKit/605.1.15 (KHTML, like Gecko) Version/15.5 Mobile/15E148 Safari/604.1"

	instagramExtractorArgs = "instagram:reels_video=1,story=1,high_quality=1,allow_extra=1"
	instagramMergeFormat   = "bestvideo[ext=mp4]+bestaudio[ext=m4a]/mp4/best"
)

type InstagramProvider struct{}

func NewInstagram() *InstagramProvider {
	return &InstagramProvider{}
}

func (ip *InstagramProvider) Name() string {
	return "Instagram"
}

func (ip *InstagramProvider) Family() Family {
	return Instagram
}

// Attempts go from an explicit merge, to default selection, to the generic extractor.
func (ip *InstagramProvider) Attempts(t Target) [][]string {
	ua := t.UserAgent
	if ua == "" {
		ua = DefaultInstagramUA
	}

	base := []string{"--no-progress", "-o", t.OutputTemplate, t.URL}
	base = append(base, referer(t.URL)...)
	base = append(base,
		"--user-agent", ua,
		"--extractor-args", instagramExtractorArgs,
		"--no-warnings",
	)
	base = withCookies(base, t.Cookies)

	return [][]string{
		variant(base, "-f", instagramMergeFormat, "--merge-output-format", "mp4"),
		variant(base, "--merge-output-format", "mp4"),
		variant(base, "--force-generic-extractor", "--merge-output-format", "mp4"),
	}
}
