package mapper

import (
	"sumii-mobile-api/internal/entity"
	"sumii-mobile-api/internal/model"
)

type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

func (m *DocumentMapper) ToEntity(d *model.Document) *entity.Document {
	if d == nil {
		return nil
	}
	return &entity.Document{
		Id:             d.Id,
		ConversationId: d.ConversationId,
		UserId:         d.UserId,
		Filename:       d.Filename,
		FileType:       d.FileType,
		FileSize:       d.FileSize,
		S3Key:          d.S3Key,
		S3Url:          d.S3Url,
		UploadStatus:   entity.UploadStatus(d.UploadStatus),
		OcrStatus:      entity.OcrStatus(d.OcrStatus),
		OcrText:        d.OcrText,
		CreatedAt:      d.CreatedAt,
		DeletedAt:      deletedAtToPtr(d.DeletedAt),
	}
}

func (m *DocumentMapper) ToModel(d *entity.Document) *model.Document {
	if d == nil {
		return nil
	}
	return &model.Document{
		Id:             d.Id,
		ConversationId: d.ConversationId,
		UserId:         d.UserId,
		Filename:       d.Filename,
		FileType:       d.FileType,
		FileSize:       d.FileSize,
		S3Key:          d.S3Key,
		S3Url:          d.S3Url,
		UploadStatus:   string(d.UploadStatus),
		OcrStatus:      string(d.OcrStatus),
		OcrText:        d.OcrText,
		CreatedAt:      d.CreatedAt,
		DeletedAt:      ptrToDeletedAt(d.DeletedAt),
	}
}

func (m *DocumentMapper) ToEntities(items []*model.Document) []*entity.Document {
	entities := make([]*entity.Document, len(items))
	for i, d := range items {
		entities[i] = m.ToEntity(d)
	}
	return entities
}

type SummaryMapper struct{}

func NewSummaryMapper() *SummaryMapper {
	return &SummaryMapper{}
}

func (m *SummaryMapper) ToEntity(s *model.Summary) *entity.Summary {
	if s == nil {
		return nil
	}
	return &entity.Summary{
		Id:              s.Id,
		ConversationId:  s.ConversationId,
		UserId:          s.UserId,
		MarkdownContent: s.MarkdownContent,
		ReferenceNumber: s.ReferenceNumber,
		MarkdownS3Key:   s.MarkdownS3Key,
		PdfS3Key:        s.PdfS3Key,
		PdfUrl:          s.PdfUrl,
		LegalArea:       entity.LegalArea(s.LegalArea),
		CaseStrength:    entity.CaseStrength(s.CaseStrength),
		Urgency:         entity.Urgency(s.Urgency),
		CreatedAt:       s.CreatedAt,
		DeletedAt:       deletedAtToPtr(s.DeletedAt),
	}
}

func (m *SummaryMapper) ToModel(s *entity.Summary) *model.Summary {
	if s == nil {
		return nil
	}
	return &model.Summary{
		Id:              s.Id,
		ConversationId:  s.ConversationId,
		UserId:          s.UserId,
		MarkdownContent: s.MarkdownContent,
		ReferenceNumber: s.ReferenceNumber,
		MarkdownS3Key:   s.MarkdownS3Key,
		PdfS3Key:        s.PdfS3Key,
		PdfUrl:          s.PdfUrl,
		LegalArea:       string(s.LegalArea),
		CaseStrength:    string(s.CaseStrength),
		Urgency:         string(s.Urgency),
		CreatedAt:       s.CreatedAt,
		DeletedAt:       ptrToDeletedAt(s.DeletedAt),
	}
}

func (m *SummaryMapper) ToEntities(items []*model.Summary) []*entity.Summary {
	entities := make([]*entity.Summary, len(items))
	for i, s := range items {
		entities[i] = m.ToEntity(s)
	}
	return entities
}
