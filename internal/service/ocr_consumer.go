package service

import (
	"context"
	"encoding/json"
	"errors"

	"sumii-mobile-api/internal/constant"
	"sumii-mobile-api/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// OcrJob is the payload queued after an upload.
type OcrJob struct {
	DocumentId uuid.UUID `json:"document_id"`
}

func newOcrJobMessage(documentId uuid.UUID) (*message.Message, error) {
	payload, err := json.Marshal(OcrJob{DocumentId: documentId})
	if err != nil {
		return nil, err
	}
	return message.NewMessage(watermill.NewUUID(), payload), nil
}

type IOcrConsumer interface {
	Consume(ctx context.Context) error
}

type ocrConsumer struct {
	subscriber message.Subscriber
	ocrService IOcrService
	logger     logger.ILogger
}

func NewOcrConsumer(subscriber message.Subscriber, ocrService IOcrService, log logger.ILogger) IOcrConsumer {
	return &ocrConsumer{subscriber: subscriber, ocrService: ocrService, logger: log}
}

func (c *ocrConsumer) Consume(ctx context.Context) error {
	messages, err := c.subscriber.Subscribe(ctx, constant.TopicOcrRequested)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			c.processMessage(ctx, msg)
		}
	}()
	return nil
}

// processMessage always acks; a failed job is recorded on the row as ocr_status=failed.
func (c *ocrConsumer) processMessage(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	var job OcrJob
	if err := json.Unmarshal(msg.Payload, &job); err != nil {
		c.logger.Error("OCR", "dropping malformed job", map[string]interface{}{"error": err})
		return
	}

	if _, err := c.ocrService.Process(ctx, job.DocumentId); err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			c.logger.Warn("OCR", "job skipped", map[string]interface{}{"document_id": job.DocumentId, "error": err})
			return
		}
		c.logger.Error("OCR", "job failed", map[string]interface{}{"document_id": job.DocumentId, "error": err})
	}
}
