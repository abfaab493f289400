package domain

import (
	"github.com/kitefall/pulse-backend/internal/domain/alerting"
	"github.com/kitefall/pulse-backend/internal/domain/user"
	"github.com/kitefall/pulse-backend/internal/domain/watch"
)

const (
	EntityTypeCompany = watch.EntityTypeCompany
	EntityTypeModel   = watch.EntityTypeModel
	EntityTypeFunding = watch.EntityTypeFunding

	ChannelInApp        = alerting.ChannelInApp
	ChannelEmailInstant = alerting.ChannelEmailInstant
	ChannelEmailDaily   = alerting.ChannelEmailDaily
)

type (
	User = user.User

	WatchedEntity    = watch.WatchedEntity
	WatchlistItem    = watch.WatchlistItem
	AlertPreference  = watch.AlertPreference
	ReadHistoryEntry = watch.ReadHistoryEntry

	AlertDeliveryLog = alerting.AlertDeliveryLog
	InAppAlert       = alerting.InAppAlert
)
