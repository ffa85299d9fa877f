package provider

type TikTokProvider struct{}

func NewTikTok() *TikTokProvider {
	return &TikTokProvider{}
}

func (tp *TikTokProvider) Name() string {
	return "TikTok"
}

func (tp *TikTokProvider) Family() Family {
	return TikTok
}

func (tp *TikTokProvider) Attempts(t Target) [][]string {
	return [][]string{mergeBase(t)}
}
