package bridge

const (
	messageTypeInit    = "init"
	messageTypeSpeak   = "speak"
	messageTypeThink   = "think"
	messageTypeDestroy = "destroy"

	messageTypeProgress    = "progress"
	messageTypeStateChange = "state_change"
	messageTypeWidgetEvent = "widget_event"
	messageTypeMessage     = "message"
	messageTypeClose       = "close"

	widgetEventSubtitleOn  = "subtitle_on"
	widgetEventSubtitleOff = "subtitle_off"
)

type initMessage struct {
	Type          string `json:"type"`
	ContainerID   string `json:"container_id"`
	AppID         string `json:"app_id"`
	AppSecret     string `json:"app_secret"`
	GatewayServer string `json:"gateway_server"`
}

type speakMessage struct {
	Type    string `json:"type"`
	SSML    string `json:"ssml"`
	IsStart bool   `json:"is_start"`
	IsEnd   bool   `json:"is_end"`
}

type commandMessage struct {
	Type string `json:"type"`
}

// pageMessage is anything the page reports back. Only the fields matching
// Type are set.
type pageMessage struct {
	Type     string       `json:"type"`
	Progress float64      `json:"progress,omitempty"`
	State    string       `json:"state,omitempty"`
	Event    *widgetEvent `json:"event,omitempty"`
	Message  string       `json:"message,omitempty"`
}

type widgetEvent struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}
