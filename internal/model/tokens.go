package model

import "time"

// Слоты ротации: у пользователя не больше двух пар токенов.
const (
	SlotFirst  = "1"
	SlotSecond = "2"
)

// TokenPair - строка таблицы UserTokens.
// UserID выступает ключом партиции, Slot - ключом строки.
type TokenPair struct {
	UserID     string    `db:"partition_key" bson:"partition_key" json:"-"`
	Slot       string    `db:"row_key" bson:"row_key" json:"-"`
	LogicToken string    `db:"logic_token" bson:"logic_token" json:"logicToken"`
	DbToken    string    `db:"db_token" bson:"db_token" json:"dbToken"`
	Timestamp  time.Time `db:"updated_at" bson:"updated_at" json:"timestamp"`
}

// LoginResponse отдается клиенту после входа или регистрации.
// Имена полей совпадают с тем, что ожидает мобильный клиент.
type LoginResponse struct {
	UserID     string `json:"User_id"`
	LogicToken string `json:"Logic_token"`
	DbToken    string `json:"db_token"`
	Photo      string `json:"Photo"`
}
