package model

import (
	"errors"
	"strings"
	"time"
)

type LoginCredentials struct {
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
}

func (c LoginCredentials) Validate() error {
	if blank(c.Email) || blank(c.PasswordHash) {
		return errors.New("Incomplete user data.")
	}
	return nil
}

// UserRegistrationInfo передается в DB-слой при регистрации, в том числе через Google.
type UserRegistrationInfo struct {
	UserID       string `json:"userId,omitempty"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
	Name         string `json:"name"`
	Bio          string `json:"bio,omitempty"`
	Preferences  string `json:"preferences,omitempty"`
	PhoneNumber  string `json:"phoneNumber,omitempty"`
	Photo        string `json:"photo,omitempty"`
	PhotoURL     string `json:"photoUrl,omitempty"`
}

func (u UserRegistrationInfo) Validate() error {
	switch {
	case blank(u.Email):
		return errors.New("email cannot be empty")
	case blank(u.PasswordHash):
		return errors.New("passwordHash cannot be empty")
	case blank(u.Name):
		return errors.New("name cannot be empty")
	}
	return nil
}

// PostDetails - объявление о поездке.
type PostDetails struct {
	PostID         string  `json:"postId"`
	PosterID       string  `json:"posterId"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	DepartureDate  string  `json:"departureDate"`
	OriginLat      float64 `json:"originLat"`
	OriginLng      float64 `json:"originLng"`
	DestinationLat float64 `json:"destinationLat"`
	DestinationLng float64 `json:"destinationLng"`
	Price          float64 `json:"price"`
	SeatsAvailable int     `json:"seatsAvailable"`
}

func (p PostDetails) Validate() error {
	switch {
	case blank(p.Name):
		return errors.New("name cannot be empty")
	case blank(p.Description):
		return errors.New("description cannot be empty")
	case blank(p.DepartureDate):
		return errors.New("departureDate cannot be empty")
	}

	if err := validateCoordinates(p.OriginLat, p.OriginLng, "origin"); err != nil {
		return err
	}
	if err := validateCoordinates(p.DestinationLat, p.DestinationLng, "destination"); err != nil {
		return err
	}

	if p.Price < 0 {
		return errors.New("price cannot be negative")
	}
	if p.SeatsAvailable < 0 {
		return errors.New("seatsAvailable cannot be negative")
	}
	return nil
}

// SearchCriteria - параметры поиска поездок. Радиусы заданы в километрах.
type SearchCriteria struct {
	OriginLat         float64 `json:"originLat"`
	OriginLng         float64 `json:"originLng"`
	OriginRadius      float64 `json:"originRadius"`
	DestinationLat    float64 `json:"destinationLat"`
	DestinationLng    float64 `json:"destinationLng"`
	DestinationRadius float64 `json:"destinationRadius"`
	NumberOfResults   int     `json:"numberOfResults,omitempty"`
}

func (s SearchCriteria) Validate() error {
	if err := validateCoordinates(s.OriginLat, s.OriginLng, "origin"); err != nil {
		return err
	}
	if err := validateCoordinates(s.DestinationLat, s.DestinationLng, "destination"); err != nil {
		return err
	}
	if s.OriginRadius <= 0 || s.DestinationRadius <= 0 {
		return errors.New("search radius must be positive")
	}
	if s.NumberOfResults < 0 {
		return errors.New("numberOfResults cannot be negative")
	}
	return nil
}

type IncomingConversationRequest struct {
	UserID   string `json:"userId"`
	Contents string `json:"contents"`
}

func (c IncomingConversationRequest) Validate() error {
	if blank(c.UserID) {
		return errors.New("userId is invalid")
	}
	if blank(c.Contents) {
		return errors.New("contents cannot be empty")
	}
	return nil
}

type OutgoingConversationRequest struct {
	UserID    string    `json:"userId"`
	TimeStamp time.Time `json:"timeStamp"`
	Contents  string    `json:"contents"`
}

type IncomingMessageRequest struct {
	ConversationID string `json:"conversationId"`
	Contents       string `json:"contents"`
}

func (m IncomingMessageRequest) Validate() error {
	if blank(m.ConversationID) {
		return errors.New("conversationId is invalid")
	}
	if blank(m.Contents) {
		return errors.New("contents cannot be empty")
	}
	return nil
}

type OutgoingMessageRequest struct {
	SenderID       string    `json:"senderId"`
	TimeStamp      time.Time `json:"timeStamp"`
	ConversationID string    `json:"conversationId"`
	Contents       string    `json:"contents"`
}

func validateCoordinates(lat float64, lng float64, prefix string) error {
	if lat < -90 || lat > 90 {
		return errors.New(prefix + "Lat must be between -90 and 90")
	}
	if lng < -180 || lng > 180 {
		return errors.New(prefix + "Lng must be between -180 and 180")
	}
	return nil
}

func blank(value string) bool {
	return strings.TrimSpace(value) == ""
}
