package models

import (
	"time"
)

type Message struct {
	ID          uint      `gorm:"primaryKey" json:"IdMensagem"`
	SenderID    uint      `gorm:"not null;index:idx_message_pair" json:"IdRemetente"`
	Sender      *User     `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE" json:"remetente,omitempty"`
	RecipientID uint      `gorm:"not null;index:idx_message_pair;index" json:"IdDestinatario"`
	Recipient   *User     `gorm:"foreignKey:RecipientID;constraint:OnDelete:CASCADE" json:"destinatario,omitempty"`
	Content     string    `gorm:"type:varchar(255);not null" json:"Conteudo"`
	SentAt      time.Time `gorm:"autoCreateTime;index" json:"DataEnvio"`
}

const MaxMessageLength = 255

// Counterpart returns the other participant from userID's point of view.
func (m *Message) Counterpart(userID uint) uint {
	if m.SenderID == userID {
		return m.RecipientID
	}
	return m.SenderID
}

func (Message) TableName() string {
	return "messages"
}

type Notification struct {
	ID         uint                    `gorm:"primaryKey" json:"IdNotificacao"`
	Message    string                  `gorm:"type:varchar(255);not null" json:"Mensagem"`
	CreatedAt  time.Time               `gorm:"autoCreateTime" json:"DataNotificacao"`
	Recipients []NotificationRecipient `gorm:"foreignKey:NotificationID;constraint:OnDelete:CASCADE" json:"destinatarios,omitempty"`
}

func (Notification) TableName() string {
	return "notifications"
}

// NotificationRecipient delivers one notification to one user.
type NotificationRecipient struct {
	ID             uint          `gorm:"primaryKey" json:"IdNotificacaoUtilizador"`
	NotificationID uint          `gorm:"not null;index:idx_notification_user,unique" json:"IdNotificacao"`
	Notification   *Notification `gorm:"foreignKey:NotificationID" json:"notificacao,omitempty"`
	UserID         uint          `gorm:"not null;index:idx_notification_user,unique;index" json:"IdUtilizador"`
	ReceivedAt     time.Time     `gorm:"autoCreateTime" json:"DataRececao"`
	ReadAt         *time.Time    `json:"DataLeitura"`
}

func (NotificationRecipient) TableName() string {
	return "notification_recipients"
}
