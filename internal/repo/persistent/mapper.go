package persistent

import (
	"agency-pulse/internal/entity"
	"agency-pulse/internal/model"
)

func ToPostEntity(m *model.PostModel) *entity.Post {
	if m == nil {
		return nil
	}

	return &entity.Post{
		ID:             m.ID,
		SubscriberID:   m.SubscriberID,
		Platform:       entity.Platform(m.Platform),
		Content:        m.Content,
		MediaURL:       m.MediaURL,
		Status:         entity.PostStatus(m.Status),
		ScheduledFor:   m.ScheduledFor,
		PublishedAt:    m.PublishedAt,
		PlatformPostID: m.PlatformPostID,
		StrategyUsed:   m.StrategyUsed,
		LastError:      m.LastError,
		ErrorClass:     entity.ErrorClass(m.ErrorClass),
		RetryCount:     m.RetryCount,
		NextRetryAt:    m.NextRetryAt,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func ToPostModel(e *entity.Post) *model.PostModel {
	if e == nil {
		return nil
	}

	return &model.PostModel{
		ID:             e.ID,
		SubscriberID:   e.SubscriberID,
		Platform:       string(e.Platform),
		Content:        e.Content,
		MediaURL:       e.MediaURL,
		Status:         string(e.Status),
		ScheduledFor:   e.ScheduledFor,
		PublishedAt:    e.PublishedAt,
		PlatformPostID: e.PlatformPostID,
		StrategyUsed:   e.StrategyUsed,
		LastError:      e.LastError,
		ErrorClass:     string(e.ErrorClass),
		RetryCount:     e.RetryCount,
		NextRetryAt:    e.NextRetryAt,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func ToLedgerEntryEntity(m *model.QuotaLedgerEntryModel) *entity.QuotaLedgerEntry {
	if m == nil {
		return nil
	}

	return &entity.QuotaLedgerEntry{
		ID:           m.ID,
		SubscriberID: m.SubscriberID,
		CycleStart:   m.CycleStart,
		CycleEnd:     m.CycleEnd,
		Quota:        m.Quota,
		Used:         m.Used,
		LastPostedAt: m.LastPostedAt,
		Sealed:       m.Sealed,
		Frozen:       m.Frozen,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func ToLedgerEntryModel(e *entity.QuotaLedgerEntry) *model.QuotaLedgerEntryModel {
	if e == nil {
		return nil
	}

	return &model.QuotaLedgerEntryModel{
		ID:           e.ID,
		SubscriberID: e.SubscriberID,
		CycleStart:   e.CycleStart,
		CycleEnd:     e.CycleEnd,
		Quota:        e.Quota,
		Used:         e.Used,
		LastPostedAt: e.LastPostedAt,
		Sealed:       e.Sealed,
		Frozen:       e.Frozen,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func ToSnapshotEntity(m *model.QuotaSnapshotModel) *entity.QuotaSnapshot {
	if m == nil {
		return nil
	}

	return &entity.QuotaSnapshot{
		ID:           m.ID,
		SubscriberID: m.SubscriberID,
		EntryID:      m.EntryID,
		Quota:        m.Quota,
		Used:         m.Used,
		CreatedAt:    m.CreatedAt,
	}
}

func ToSnapshotModel(e *entity.QuotaSnapshot) *model.QuotaSnapshotModel {
	if e == nil {
		return nil
	}

	return &model.QuotaSnapshotModel{
		ID:           e.ID,
		SubscriberID: e.SubscriberID,
		EntryID:      e.EntryID,
		Quota:        e.Quota,
		Used:         e.Used,
		CreatedAt:    e.CreatedAt,
	}
}

func ToConnectionEntity(m *model.PlatformConnectionModel) *entity.PlatformConnection {
	if m == nil {
		return nil
	}

	return &entity.PlatformConnection{
		ID:                m.ID,
		SubscriberID:      m.SubscriberID,
		Platform:          entity.Platform(m.Platform),
		AccessToken:       m.AccessToken,
		RefreshToken:      m.RefreshToken,
		PageID:            m.PageID,
		BusinessAccountID: m.BusinessAccountID,
		ProfileURN:        m.ProfileURN,
		ChannelID:         m.ChannelID,
		Active:            m.Active,
		ExpiresAt:         m.ExpiresAt,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func ToSubscriberEntity(m *model.SubscriberModel) *entity.Subscriber {
	if m == nil {
		return nil
	}

	return &entity.Subscriber{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Plan:         entity.Plan(m.Plan),
		Active:       m.Active,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func ToAttemptModel(e *entity.PublishAttempt) *model.PublishAttemptModel {
	if e == nil {
		return nil
	}

	return &model.PublishAttemptModel{
		ID:           e.ID,
		PostID:       e.PostID,
		Platform:     string(e.Platform),
		Strategy:     e.Strategy,
		Success:      e.Success,
		FallbackUsed: e.FallbackUsed,
		ErrorClass:   string(e.ErrorClass),
		ErrorMessage: e.ErrorMessage,
		CreatedAt:    e.CreatedAt,
	}
}

func ToAttemptEntity(m *model.PublishAttemptModel) *entity.PublishAttempt {
	if m == nil {
		return nil
	}

	return &entity.PublishAttempt{
		ID:           m.ID,
		PostID:       m.PostID,
		Platform:     entity.Platform(m.Platform),
		Strategy:     m.Strategy,
		Success:      m.Success,
		FallbackUsed: m.FallbackUsed,
		ErrorClass:   entity.ErrorClass(m.ErrorClass),
		ErrorMessage: m.ErrorMessage,
		CreatedAt:    m.CreatedAt,
	}
}
