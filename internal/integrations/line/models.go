package line

// Message текстовое сообщение LINE
type Message struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// PushRequest тело запроса /v2/bot/message/push
type PushRequest struct {
	To       string    `json:"to"`
	Messages []Message `json:"messages"`
}

// ErrorResponse модель ошибки от LINE Messaging API
type ErrorResponse struct {
	Message string `json:"message"`
}
