// Package orderrepo maps order aggregates to the relational "orders" table
// and implements the order repository on top of GORM.
package orderrepo

import (
	"encoding/json"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// OrderDTO is the row layout of an order. Line items are stored as a JSON
// document; they are written once and only ever read back whole.
type OrderDTO struct {
	ID                string          `gorm:"type:varchar(32);primaryKey"`
	CustomerRef       string          `gorm:"type:varchar(128);index"`
	Channel           string          `gorm:"type:varchar(16)"`
	Items             datatypes.JSON  `gorm:"not null"`
	Total             decimal.Decimal `gorm:"type:numeric(14,2)"`
	Status            string          `gorm:"type:varchar(24);index"`
	RiderID           *string         `gorm:"type:varchar(64);index"`
	Zone              string          `gorm:"type:varchar(16)"`
	Priority          string          `gorm:"type:varchar(16)"`
	DispatchAttempts  int
	RedispatchCount   int
	ExcludedRiderID   *string `gorm:"type:varchar(64)"`
	AssignedAt        *time.Time
	DeliveryCode      string `gorm:"type:varchar(4)"`
	CustomerConfirmed bool
	CreatedAt         time.Time `gorm:"index;autoCreateTime:false"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime:false"`
	DeliveredAt       *time.Time
	CompletedAt       *time.Time
}

// TableName specifies the database table name for order rows.
func (OrderDTO) TableName() string {
	return "orders"
}

func fromDomain(aggregate *order.Order) (OrderDTO, error) {
	s := aggregate.Snapshot()

	items, err := json.Marshal(s.Items)
	if err != nil {
		return OrderDTO{}, fmt.Errorf("encode items of order %s: %w", s.ID, err)
	}

	return OrderDTO{
		ID:                s.ID,
		CustomerRef:       s.CustomerRef,
		Channel:           string(s.Channel),
		Items:             datatypes.JSON(items),
		Total:             s.Total,
		Status:            s.Status.String(),
		RiderID:           s.RiderID,
		Zone:              s.Zone.String(),
		Priority:          s.Priority.String(),
		DispatchAttempts:  s.DispatchAttempts,
		RedispatchCount:   s.RedispatchCount,
		ExcludedRiderID:   s.ExcludedRiderID,
		AssignedAt:        s.AssignedAt,
		DeliveryCode:      s.DeliveryCode,
		CustomerConfirmed: s.CustomerConfirmed,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
		DeliveredAt:       s.DeliveredAt,
		CompletedAt:       s.CompletedAt,
	}, nil
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	var items []order.Item
	if err := json.Unmarshal(dto.Items, &items); err != nil {
		return nil, fmt.Errorf("decode items of order %s: %w", dto.ID, err)
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(order.Snapshot{
		ID:                dto.ID,
		CustomerRef:       dto.CustomerRef,
		Channel:           order.Channel(dto.Channel),
		Items:             items,
		Total:             dto.Total,
		Status:            status,
		RiderID:           dto.RiderID,
		Zone:              kernel.Zone(dto.Zone),
		Priority:          order.Priority(dto.Priority),
		DispatchAttempts:  dto.DispatchAttempts,
		RedispatchCount:   dto.RedispatchCount,
		ExcludedRiderID:   dto.ExcludedRiderID,
		AssignedAt:        dto.AssignedAt,
		DeliveryCode:      dto.DeliveryCode,
		CustomerConfirmed: dto.CustomerConfirmed,
		CreatedAt:         dto.CreatedAt,
		UpdatedAt:         dto.UpdatedAt,
		DeliveredAt:       dto.DeliveredAt,
		CompletedAt:       dto.CompletedAt,
	})
}
