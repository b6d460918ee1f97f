package model

import "time"

// DbLayerLoginResponse - ответ DB-слоя на вход, регистрацию и Google-вход.
type DbLayerLoginResponse struct {
	UserID string `json:"user_id"`
	Photo  string `json:"photo"`
}

// DbLayerResponse - ответ DB-слоя на создание записи.
type DbLayerResponse struct {
	ID string `json:"id"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type Message struct {
	TimeStamp      time.Time `json:"timeStamp"`
	SenderID       string    `json:"senderId"`
	ConversationID string    `json:"conversationId,omitempty"`
	Contents       string    `json:"contents"`
}

type ConversationUser struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Photo  string `json:"photo,omitempty"`
}

type Conversation struct {
	ConversationID string            `json:"conversationId"`
	PostID         string            `json:"postId,omitempty"`
	User           *ConversationUser `json:"user"`
	Messages       []Message         `json:"messages"`
}

// Complete сообщает, есть ли в беседе все поля, которые нужны клиенту.
func (c Conversation) Complete() bool {
	return blank(c.ConversationID) == false && c.Messages != nil && c.User != nil
}
