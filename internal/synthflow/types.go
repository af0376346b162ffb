package synthflow

// Call handling directions of an assistant.
const (
	TypeInbound  = "inbound"
	TypeOutbound = "outbound"
)

// DefaultLLM is the model used when none is configured.
const DefaultLLM = "synthflow"

// Agent is the conversational part of an assistant.
// Pointer fields are omitted when nil so a partial update leaves remote values alone.
type Agent struct {
	Prompt          string `json:"prompt"`
	LLM             string `json:"llm,omitempty"`
	Language        string `json:"language,omitempty"`
	GreetingMessage string `json:"greeting_message"`
	VoiceID         string `json:"voice_id,omitempty"`

	VoiceStability                *float64 `json:"voice_stability,omitempty"`
	VoiceSimilarityBoost          *float64 `json:"voice_similarity_boost,omitempty"`
	VoiceStyle                    *float64 `json:"voice_style,omitempty"`
	VoiceOptimiseStreamingLatency *float64 `json:"voice_optimise_streaming_latency,omitempty"`
	VoiceUseSpeakerBoost          *bool    `json:"voice_use_speaker_boost,omitempty"`

	AllowedIdleTimeSeconds *int   `json:"allowed_idle_time_seconds,omitempty"`
	InitialPauseSeconds    *int   `json:"initial_pause_seconds,omitempty"`
	RingPauseSeconds       *int   `json:"ring_pause_seconds,omitempty"`
	PatienceLevel          string `json:"patience_level,omitempty"`
}

// MaxDuration caps the length of a call.
type MaxDuration struct {
	DurationSeconds int  `json:"duration_seconds"`
	IsEnabled       bool `json:"is_enabled"`
}

// Assistant is the hosted voice agent resource.
type Assistant struct {
	ModelID            string       `json:"model_id,omitempty"`
	Type               string       `json:"type"`
	Name               string       `json:"name"`
	Description        string       `json:"description,omitempty"`
	PhoneNumber        string       `json:"phone_number,omitempty"`
	CallerIDNumber     string       `json:"caller_id_number,omitempty"`
	ExternalWebhookURL string       `json:"external_webhook_url,omitempty"`
	IsRecording        *bool        `json:"is_recording,omitempty"`
	Agent              Agent        `json:"agent"`
	MaxDuration        *MaxDuration `json:"max_duration,omitempty"`
	Actions            []string     `json:"actions,omitempty"`
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }
