package main

import (
	"log"

	"sumii-mobile-api/internal/entity"
	"sumii-mobile-api/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const demoTitle = "Mietminderung wegen Heizungsausfall"

// SeedDemoCase creates one intake conversation with a short transcript and
// a couple of unread notifications so the mobile app has something to show.
func SeedDemoCase(db *gorm.DB, user *model.User) error {
	var count int64
	if err := db.Model(&model.Conversation{}).
		Where("user_id = ? AND title = ?", user.Id, demoTitle).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Printf("Demo case already exists for %s, skipping...", user.Email)
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		title := demoTitle
		area := string(entity.LegalAreaMietrecht)
		agent := string(entity.AgentIntake)
		conv := model.Conversation{
			UserId:         user.Id,
			Title:          &title,
			Status:         string(entity.ConversationStatusActive),
			LegalArea:      &area,
			CurrentAgent:   &agent,
			FactsCollected: datatypes.JSON(`{"who":true,"what":true,"when":false,"where":true,"why":false}`),
			Who:            datatypes.JSON(`{"collected":true,"value":"Mieterin, Vermieter Hausverwaltung Nord"}`),
			What:           datatypes.JSON(`{"collected":true,"value":"Heizung seit drei Wochen ausgefallen"}`),
			Where:          datatypes.JSON(`{"collected":true,"value":"Hamburg"}`),
		}
		if err := tx.Create(&conv).Error; err != nil {
			return err
		}

		messages := []model.Message{
			{ConversationId: conv.Id, Role: string(entity.MessageRoleUser), Content: "Meine Heizung funktioniert seit drei Wochen nicht."},
			{ConversationId: conv.Id, Role: string(entity.MessageRoleAssistant), AgentName: &agent, Content: "Das tut mir leid. Seit wann genau besteht der Ausfall, und haben Sie den Vermieter informiert?"},
		}
		if err := tx.Create(&messages).Error; err != nil {
			return err
		}

		notifications := []model.Notification{
			{
				UserId:  user.Id,
				Type:    string(entity.NotificationCaseUpdated),
				Title:   "Fall aktualisiert",
				Message: "Ihr Fall wurde dem Rechtsgebiet Mietrecht zugeordnet.",
				Data:    datatypes.JSON(`{"conversation_id":"` + conv.Id.String() + `"}`),
			},
			{
				UserId:  user.Id,
				Type:    string(entity.NotificationNewMessage),
				Title:   "Neue Nachricht",
				Message: "Sumii hat eine Rückfrage zu Ihrem Fall.",
				Data:    datatypes.JSON(`{"conversation_id":"` + conv.Id.String() + `"}`),
			},
		}
		if err := tx.Create(&notifications).Error; err != nil {
			return err
		}

		log.Printf("Created demo case %s with %d messages", conv.Id, len(messages))
		return nil
	})
}
