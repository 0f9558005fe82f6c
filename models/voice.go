package models

// Voice is a named speech preset exposed to users.
// ProviderVoiceID is the identifier the speech provider knows the voice by.
type Voice struct {
	ID              string `json:"id" yaml:"id"`
	Name            string `json:"name" yaml:"name"`
	ProviderVoiceID string `json:"provider_voice_id" yaml:"provider_voice_id"`
}

// DefaultVoices is the built-in catalog used when no configuration overrides it.
var DefaultVoices = []Voice{
	{ID: "en-US-1", Name: "Adam (Male)", ProviderVoiceID: "pNInz6obpgDQGcFmaJgB"},
	{ID: "en-US-2", Name: "Rachel (Female)", ProviderVoiceID: "EXAVITQu4vr4xnSDxMaL"},
	{ID: "en-US-3", Name: "Sam (Male)", ProviderVoiceID: "VR6AewLTigWG4xSOukaG"},
	{ID: "en-US-4", Name: "Emily (Female)", ProviderVoiceID: "yoZ06aMxZJJ28mfd3POQ"},
}
