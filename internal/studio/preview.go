package studio

// PreviewDecision is what a press on a voice's preview button resolves to.
type PreviewDecision int

const (
	// PreviewIgnore means a preview for that voice is already loading.
	PreviewIgnore PreviewDecision = iota
	// PreviewToggle means the existing clip was paused or resumed.
	PreviewToggle
	// PreviewLoad means the caller must fetch a new clip and report back.
	PreviewLoad
)

func (d PreviewDecision) String() string {
	switch d {
	case PreviewIgnore:
		return "ignore"
	case PreviewToggle:
		return "toggle"
	case PreviewLoad:
		return "load"
	}
	return "unknown"
}

// PreviewClip is a loaded voice sample.
type PreviewClip struct {
	VoiceID     string
	Data        []byte
	ContentType string
}

// PreviewState is the externally visible state of the preview player.
// Clip changes every time a new clip is installed.
type PreviewState struct {
	VoiceID      string `json:"voice_id,omitempty"`
	Clip         uint64 `json:"clip,omitempty"`
	Playing      bool   `json:"playing"`
	LoadingVoice string `json:"loading_voice,omitempty"`
}

// previewPlayer holds at most one clip, so at most one sample ever plays.
// It is not safe for concurrent use; Studio guards it.
type previewPlayer struct {
	clip      *PreviewClip
	clipToken uint64
	playing   bool
	loading   string
	token     uint64
}

// press resolves a button press. selected is the session's selected voice.
func (p *previewPlayer) press(voiceID, selected string) (PreviewDecision, uint64) {
	if p.loading == voiceID {
		return PreviewIgnore, 0
	}
	if voiceID == selected && p.clip != nil && p.clip.VoiceID == voiceID {
		p.playing = !p.playing
		return PreviewToggle, 0
	}
	p.token++
	p.loading = voiceID
	return PreviewLoad, p.token
}

// loaded installs clip if token is the latest load. The previous clip is
// dropped, which stops it.
func (p *previewPlayer) loaded(token uint64, clip PreviewClip) bool {
	if token != p.token {
		return false
	}
	p.clip = &clip
	p.clipToken = token
	p.playing = true
	p.loading = ""
	return true
}

func (p *previewPlayer) failed(token uint64) bool {
	if token != p.token {
		return false
	}
	p.loading = ""
	return true
}

func (p *previewPlayer) ended() {
	p.playing = false
}

func (p *previewPlayer) state() PreviewState {
	st := PreviewState{Playing: p.playing, LoadingVoice: p.loading}
	if p.clip != nil {
		st.VoiceID = p.clip.VoiceID
		st.Clip = p.clipToken
	}
	return st
}
