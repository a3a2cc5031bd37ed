package handlers

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"github.com/tungtee888/bookingapi/internal/domain"
)

func init() {
	RegisterDirect(TopicNotificationCommands, handleDirectCommand)
}

func handleDirectCommand(data []byte) *domain.CreateNotificationInput {
	var cmd struct {
		CommandID string `json:"commandId"`
		UserID    string `json:"userId"`
		Message   string `json:"message"`
		Type      string `json:"type"`
	}

	if err := json.Unmarshal(data, &cmd); err != nil {
		return nil
	}

	userID, err := uuid.Parse(cmd.UserID)
	if err != nil || strings.TrimSpace(cmd.Message) == "" {
		return nil
	}

	notifType := domain.NotificationType(cmd.Type)
	if notifType == "" || !notifType.Valid() {
		notifType = domain.TypeCustom
	}

	return &domain.CreateNotificationInput{
		UserID:        userID,
		Message:       cmd.Message,
		Type:          notifType,
		SourceEventID: cmd.CommandID,
	}
}
