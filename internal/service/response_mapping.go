package service

import (
	"sumii-mobile-api/internal/dto"
	"sumii-mobile-api/internal/entity"
)

func toUserResponse(u *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		Id:          u.Id,
		Email:       u.Email,
		IsActive:    u.IsActive,
		IsVerified:  u.IsVerified,
		IsSuperuser: u.IsSuperuser,
		Language:    u.Language,
		PushToken:   u.PushToken,
		Timezone:    u.Timezone,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func toProfileResponse(u *entity.User) *dto.ProfileResponse {
	return &dto.ProfileResponse{
		Id:                u.Id,
		Email:             u.Email,
		Nickname:          u.Nickname,
		Language:          u.Language,
		Timezone:          u.Timezone,
		Latitude:          u.Latitude,
		Longitude:         u.Longitude,
		FirstName:         u.FirstName,
		LastName:          u.LastName,
		Phone:             u.Phone,
		AddressStreet:     u.AddressStreet,
		AddressCity:       u.AddressCity,
		AddressPostalCode: u.AddressPostalCode,
		LegalInsurance:    u.LegalInsurance,
		InsuranceCompany:  u.InsuranceCompany,
		InsuranceNumber:   u.InsuranceNumber,
	}
}

func enumString[T ~string](v *T) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}

func toConversationResponse(c *entity.Conversation) dto.ConversationResponse {
	return dto.ConversationResponse{
		Id:                c.Id,
		UserId:            c.UserId,
		Title:             c.Title,
		Status:            string(c.Status),
		LegalArea:         enumString(c.LegalArea),
		CaseStrength:      enumString(c.CaseStrength),
		Urgency:           enumString(c.Urgency),
		CurrentAgent:      enumString(c.CurrentAgent),
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
		WrapupConfirmed:   c.WrapupConfirmed,
		WrapupContent:     c.WrapupContent,
		WrapupConfirmedAt: c.WrapupConfirmedAt,
	}
}

func toConversationResponses(items []*entity.Conversation) []dto.ConversationResponse {
	out := make([]dto.ConversationResponse, 0, len(items))
	for _, c := range items {
		out = append(out, toConversationResponse(c))
	}
	return out
}

func toMessageResponse(m *entity.Message) dto.MessageResponse {
	ids := m.DocumentIds
	if ids == nil {
		ids = []string{}
	}
	return dto.MessageResponse{
		Id:             m.Id,
		ConversationId: m.ConversationId,
		Role:           string(m.Role),
		Content:        m.Content,
		AgentName:      m.AgentName,
		FunctionCall:   m.FunctionCall,
		DocumentIds:    ids,
		CreatedAt:      m.CreatedAt,
	}
}

func toMessageResponses(items []*entity.Message) []dto.MessageResponse {
	out := make([]dto.MessageResponse, 0, len(items))
	for _, m := range items {
		out = append(out, toMessageResponse(m))
	}
	return out
}

func toDocumentResponse(d *entity.Document) dto.DocumentResponse {
	return dto.DocumentResponse{
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
	}
}

func toDocumentResponses(items []*entity.Document) []dto.DocumentResponse {
	out := make([]dto.DocumentResponse, 0, len(items))
	for _, d := range items {
		out = append(out, toDocumentResponse(d))
	}
	return out
}

func toSummaryResponse(s *entity.Summary) dto.SummaryResponse {
	return dto.SummaryResponse{
		Id:              s.Id,
		ConversationId:  s.ConversationId,
		UserId:          s.UserId,
		ReferenceNumber: s.ReferenceNumber,
		MarkdownContent: s.MarkdownContent,
		MarkdownS3Key:   s.MarkdownS3Key,
		PdfS3Key:        s.PdfS3Key,
		PdfUrl:          s.PdfUrl,
		LegalArea:       string(s.LegalArea),
		CaseStrength:    string(s.CaseStrength),
		Urgency:         string(s.Urgency),
		CreatedAt:       s.CreatedAt,
	}
}

func toSummaryResponses(items []*entity.Summary) []dto.SummaryResponse {
	out := make([]dto.SummaryResponse, 0, len(items))
	for _, s := range items {
		out = append(out, toSummaryResponse(s))
	}
	return out
}

func toConnectionResponse(c *entity.LawyerConnection) dto.LawyerConnectionResponse {
	return dto.LawyerConnectionResponse{
		Id:               c.Id,
		UserId:           c.UserId,
		ConversationId:   c.ConversationId,
		SummaryId:        c.SummaryId,
		LawyerId:         c.LawyerId,
		LawyerName:       c.LawyerName,
		UserMessage:      c.UserMessage,
		RejectionReason:  c.RejectionReason,
		Status:           string(c.Status),
		StatusChangedAt:  c.StatusChangedAt,
		CaseId:           c.CaseId,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
		LawyerResponseAt: c.LawyerResponseAt,
	}
}

func toConnectionResponses(items []*entity.LawyerConnection) []dto.LawyerConnectionResponse {
	out := make([]dto.LawyerConnectionResponse, 0, len(items))
	for _, c := range items {
		out = append(out, toConnectionResponse(c))
	}
	return out
}

func toNotificationResponse(n *entity.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{
		Id:         n.Id,
		UserId:     n.UserId,
		Type:       string(n.Type),
		Title:      n.Title,
		Message:    n.Message,
		Data:       n.Data,
		Read:       n.Read,
		ReadAt:     n.ReadAt,
		CreatedAt:  n.CreatedAt,
		ActionedAt: n.ActionedAt,
	}
}

func toNotificationResponses(items []*entity.Notification) []dto.NotificationResponse {
	out := make([]dto.NotificationResponse, 0, len(items))
	for _, n := range items {
		out = append(out, toNotificationResponse(n))
	}
	return out
}
