package unitofwork

import (
	"context"

	"sumii-mobile-api/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	ConversationRepository() contract.ConversationRepository
	MessageRepository() contract.MessageRepository
	DocumentRepository() contract.DocumentRepository
	SummaryRepository() contract.SummaryRepository
	LawyerConnectionRepository() contract.LawyerConnectionRepository
	NotificationRepository() contract.NotificationRepository
}
