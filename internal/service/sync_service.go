package service

import (
	"context"
	"time"

	"sumii-mobile-api/internal/dto"
	"sumii-mobile-api/internal/entity"
	"sumii-mobile-api/internal/pkg/logger"
	"sumii-mobile-api/internal/repository/scope"
	"sumii-mobile-api/internal/repository/specification"
	"sumii-mobile-api/internal/repository/unitofwork"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type ISyncService interface {
	// Sync returns everything the user changed after since. A nil since means a full sync.
	Sync(ctx context.Context, userId uuid.UUID, since *time.Time) (*dto.SyncResponse, error)
}

type syncService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewSyncService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) ISyncService {
	return &syncService{uowFactory: uowFactory, logger: log}
}

func changedSince(since *time.Time, spec func(time.Time) specification.Specification) []specification.Specification {
	if since == nil {
		return nil
	}
	return []specification.Specification{spec(*since)}
}

func createdAfter(t time.Time) specification.Specification {
	return specification.CreatedAfter{Time: t}
}

func updatedAfter(t time.Time) specification.Specification {
	return specification.UpdatedAfter{Time: t}
}

func createdOrReadAfter(t time.Time) specification.Specification {
	return specification.CreatedOrReadAfter{Time: t}
}

var (
	newestFirst     = specification.Scoped{Fn: scope.NewestFirst}
	recentlyUpdated = specification.Scoped{Fn: scope.RecentlyUpdated}
)

func ids[T any](items []T, id func(T) uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		out = append(out, id(item))
	}
	return out
}

func (s *syncService) Sync(ctx context.Context, userId uuid.UUID, since *time.Time) (*dto.SyncResponse, error) {
	serverTime := now()
	owner := specification.UserOwnedBy{UserID: userId}
	deletedSince := specification.DeletedAfter{Time: since}

	// messages are scoped through every conversation the user owns, deleted ones included
	uow := s.uowFactory.NewUnitOfWork(ctx)
	live, err := uow.ConversationRepository().FindAll(ctx, owner)
	if err != nil {
		return nil, err
	}
	gone, err := uow.ConversationRepository().FindDeleted(ctx, owner)
	if err != nil {
		return nil, err
	}
	convIds := append(ids(live, func(c *entity.Conversation) uuid.UUID { return c.Id }),
		ids(gone, func(c *entity.Conversation) uuid.UUID { return c.Id })...)

	res := &dto.SyncResponse{ServerTime: serverTime, IsFullSync: since == nil}
	var (
		conversations, deletedConversations []*entity.Conversation
		messages, deletedMessages           []*entity.Message
		documents, deletedDocuments         []*entity.Document
		summaries, deletedSummaries         []*entity.Summary
		notifications, deletedNotifications []*entity.Notification
		connections                         []*entity.LawyerConnection
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		r := s.uowFactory.NewUnitOfWork(gctx).ConversationRepository()
		if conversations, err = r.FindAll(gctx, append(changedSince(since, updatedAfter), owner, recentlyUpdated)...); err != nil {
			return err
		}
		if since != nil {
			deletedConversations, err = r.FindDeleted(gctx, owner, deletedSince)
		}
		return err
	})
	g.Go(func() (err error) {
		if len(convIds) == 0 {
			return nil
		}
		r := s.uowFactory.NewUnitOfWork(gctx).MessageRepository()
		byConv := specification.ByConversationIDs{ConversationIDs: convIds}
		if messages, err = r.FindAll(gctx, append(changedSince(since, createdAfter), byConv, newestFirst)...); err != nil {
			return err
		}
		if since != nil {
			deletedMessages, err = r.FindDeleted(gctx, byConv, deletedSince)
		}
		return err
	})
	g.Go(func() (err error) {
		r := s.uowFactory.NewUnitOfWork(gctx).DocumentRepository()
		if documents, err = r.FindAll(gctx, append(changedSince(since, createdAfter), owner, newestFirst)...); err != nil {
			return err
		}
		if since != nil {
			deletedDocuments, err = r.FindDeleted(gctx, owner, deletedSince)
		}
		return err
	})
	g.Go(func() (err error) {
		r := s.uowFactory.NewUnitOfWork(gctx).SummaryRepository()
		if summaries, err = r.FindAll(gctx, append(changedSince(since, createdAfter), owner, newestFirst)...); err != nil {
			return err
		}
		if since != nil {
			deletedSummaries, err = r.FindDeleted(gctx, owner, deletedSince)
		}
		return err
	})
	g.Go(func() (err error) {
		r := s.uowFactory.NewUnitOfWork(gctx).NotificationRepository()
		if notifications, err = r.FindAll(gctx, append(changedSince(since, createdOrReadAfter), owner, newestFirst)...); err != nil {
			return err
		}
		if since != nil {
			deletedNotifications, err = r.FindDeleted(gctx, owner, deletedSince)
		}
		return err
	})
	g.Go(func() (err error) {
		r := s.uowFactory.NewUnitOfWork(gctx).LawyerConnectionRepository()
		connections, err = r.FindAll(gctx, append(changedSince(since, updatedAfter), owner, recentlyUpdated)...)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res.Conversations = toConversationResponses(conversations)
	res.Messages = toMessageResponses(messages)
	res.Documents = toDocumentResponses(documents)
	res.Summaries = toSummaryResponses(summaries)
	res.Notifications = toNotificationResponses(notifications)
	res.LawyerConnections = toConnectionResponses(connections)
	res.DeletedIds = dto.DeletedIds{
		Conversations: ids(deletedConversations, func(c *entity.Conversation) uuid.UUID { return c.Id }),
		Messages:      ids(deletedMessages, func(m *entity.Message) uuid.UUID { return m.Id }),
		Documents:     ids(deletedDocuments, func(d *entity.Document) uuid.UUID { return d.Id }),
		Summaries:     ids(deletedSummaries, func(s *entity.Summary) uuid.UUID { return s.Id }),
		Notifications: ids(deletedNotifications, func(n *entity.Notification) uuid.UUID { return n.Id }),
	}

	s.logger.Debug("Sync", "sync served", map[string]interface{}{
		"user_id":       userId,
		"full":          res.IsFullSync,
		"conversations": len(res.Conversations),
		"messages":      len(res.Messages),
	})
	return res, nil
}
