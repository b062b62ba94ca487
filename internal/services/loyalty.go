package services

import (
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/glowdesk/internal/loyalty"
	"github.com/example/glowdesk/internal/models"
	"github.com/example/glowdesk/internal/rewards"
	"github.com/example/glowdesk/internal/utils"
)

// LoyaltyService implements the visit ledger: resolving phone numbers to
// customers, appending check-in events, and deriving aggregate state. All
// shared mutable state lives in the database; the service itself is stateless
// between calls.
type LoyaltyService struct {
	db       *gorm.DB
	policy   *rewards.Policy
	telegram *TelegramService
}

// NewLoyaltyService constructs a LoyaltyService. telegram may be nil to
// disable reward notifications.
func NewLoyaltyService(db *gorm.DB, policy *rewards.Policy, telegram *TelegramService) *LoyaltyService {
	return &LoyaltyService{db: db, policy: policy, telegram: telegram}
}

// Policy exposes the reward configuration the service was built with.
func (s *LoyaltyService) Policy() *rewards.Policy {
	return s.policy
}

// ResolveCustomer maps a raw phone number to a customer of the business,
// creating one on first sight. The returned bool reports whether a row was
// created. A lookup never mutates anything; an insert that loses the
// uniqueness race falls back to one more lookup before giving up with
// loyalty.ErrResolutionConflict.
func (s *LoyaltyService) ResolveCustomer(businessID uuid.UUID, rawPhone string) (*models.Customer, bool, error) {
	phone, err := loyalty.NormalizePhone(rawPhone)
	if err != nil {
		return nil, false, err
	}

	customer, err := s.findCustomer(businessID, phone)
	if err == nil {
		return customer, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("look up customer %s for business %s: %w", phone, businessID, err)
	}

	created := &models.Customer{BusinessID: businessID, Phone: phone}
	err = s.db.Create(created).Error
	if err == nil {
		return created, true, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, false, fmt.Errorf("create customer %s for business %s: %w", phone, businessID, err)
	}

	// Lost the insert race: someone else created the row between our lookup
	// and insert. The unique index guarantees it exists now, so retry the
	// lookup exactly once.
	customer, err = s.findCustomer(businessID, phone)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %s for business %s", loyalty.ErrResolutionConflict, phone, businessID)
	}
	return customer, false, nil
}

// RecordVisit appends one check-in event for the customer. Every call appends
// a distinct event; rapid repeats are not deduplicated.
func (s *LoyaltyService) RecordVisit(customerID uuid.UUID, staffUserID *uuid.UUID) (*models.CheckinEvent, error) {
	event := &models.CheckinEvent{CustomerID: customerID, StaffUserID: staffUserID}
	if err := s.db.Create(event).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, fmt.Errorf("%w: %s", loyalty.ErrUnknownCustomer, customerID)
		}
		return nil, fmt.Errorf("record visit for customer %s: %w", customerID, err)
	}
	return event, nil
}

// CheckInResult is the response of a completed check-in.
type CheckInResult struct {
	Customer     models.Customer           `json:"customer"`
	Aggregate    loyalty.CustomerAggregate `json:"aggregate"`
	NewCustomer  bool                      `json:"new_customer"`
	RewardEarned *rewards.Tier             `json:"reward_earned,omitempty"`
	NextTier     *rewards.Tier             `json:"next_tier,omitempty"`
	Progress     float64                   `json:"progress"`
}

// CheckIn is the write-side public operation: resolve the phone, append a
// visit, and return the fresh aggregate. When the visit crosses a reward
// threshold the admin chat is notified best-effort; a failed notification
// never fails the check-in.
func (s *LoyaltyService) CheckIn(businessID uuid.UUID, rawPhone string, staffUserID *uuid.UUID) (*CheckInResult, error) {
	customer, created, err := s.ResolveCustomer(businessID, rawPhone)
	if err != nil {
		return nil, err
	}

	if _, err := s.RecordVisit(customer.ID, staffUserID); err != nil {
		return nil, err
	}

	events, err := s.listEvents(customer.ID)
	if err != nil {
		return nil, err
	}

	aggregate := loyalty.Aggregate(*customer, events, s.policy)
	result := &CheckInResult{
		Customer:     *customer,
		Aggregate:    aggregate,
		NewCustomer:  created,
		RewardEarned: s.policy.EarnedAt(aggregate.Visits),
		NextTier:     s.policy.Next(aggregate.Visits),
		Progress:     s.policy.Progress(aggregate.Visits),
	}

	if result.RewardEarned != nil && s.telegram != nil {
		s.notifyReward(businessID, customer.Phone, aggregate.Visits, *result.RewardEarned)
	}

	return result, nil
}

// CustomerSummary pairs a customer with its derived aggregate.
type CustomerSummary struct {
	Customer  models.Customer           `json:"customer"`
	Aggregate loyalty.CustomerAggregate `json:"aggregate"`
}

// ListCustomerAggregates is the read-side public operation: every customer of
// the business with its aggregate, ordered by creation time. search filters by
// phone substring. Events for the whole page are loaded in a single query.
func (s *LoyaltyService) ListCustomerAggregates(businessID uuid.UUID, search string, p utils.Pagination) ([]CustomerSummary, int64, error) {
	query := s.db.Model(&models.Customer{}).Where("business_id = ?", businessID)
	if search != "" {
		query = query.Where("phone LIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count customers for business %s: %w", businessID, err)
	}

	var customers []models.Customer
	if err := query.Order("created_at ASC").Limit(p.Limit).Offset(p.Offset).Find(&customers).Error; err != nil {
		return nil, 0, fmt.Errorf("list customers for business %s: %w", businessID, err)
	}

	summaries, err := s.summarize(customers)
	if err != nil {
		return nil, 0, err
	}
	return summaries, total, nil
}

// GetCustomerAggregate returns one customer of the business with its
// aggregate. Unknown or foreign customer ids fail with
// loyalty.ErrUnknownCustomer.
func (s *LoyaltyService) GetCustomerAggregate(businessID, customerID uuid.UUID) (*CustomerSummary, error) {
	var customer models.Customer
	err := s.db.Where("business_id = ? AND id = ?", businessID, customerID).First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", loyalty.ErrUnknownCustomer, customerID)
		}
		return nil, fmt.Errorf("load customer %s: %w", customerID, err)
	}

	events, err := s.listEvents(customer.ID)
	if err != nil {
		return nil, err
	}

	return &CustomerSummary{
		Customer:  customer,
		Aggregate: loyalty.Aggregate(customer, events, s.policy),
	}, nil
}

// DashboardStats are the business-wide totals shown on the overview screen.
type DashboardStats struct {
	TotalCustomers int `json:"total_customers"`
	TotalVisits    int `json:"total_visits"`
	RewardsEarned  int `json:"rewards_earned"`
}

// Dashboard recomputes business-wide totals from the event history.
func (s *LoyaltyService) Dashboard(businessID uuid.UUID) (*DashboardStats, error) {
	var customers []models.Customer
	if err := s.db.Where("business_id = ?", businessID).Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("list customers for business %s: %w", businessID, err)
	}

	summaries, err := s.summarize(customers)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{TotalCustomers: len(summaries)}
	for _, summary := range summaries {
		stats.TotalVisits += summary.Aggregate.Visits
		if len(summary.Aggregate.Unlocked) > 0 {
			stats.RewardsEarned++
		}
	}
	return stats, nil
}

func (s *LoyaltyService) findCustomer(businessID uuid.UUID, phone string) (*models.Customer, error) {
	var customer models.Customer
	if err := s.db.Where("business_id = ? AND phone = ?", businessID, phone).First(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (s *LoyaltyService) listEvents(customerID uuid.UUID) ([]models.CheckinEvent, error) {
	var events []models.CheckinEvent
	if err := s.db.Where("customer_id = ?", customerID).Order("checkin_time ASC").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list check-ins for customer %s: %w", customerID, err)
	}
	return events, nil
}

// summarize aggregates a batch of customers with one query for all of their
// events, preserving input order.
func (s *LoyaltyService) summarize(customers []models.Customer) ([]CustomerSummary, error) {
	summaries := make([]CustomerSummary, 0, len(customers))
	if len(customers) == 0 {
		return summaries, nil
	}

	ids := make([]uuid.UUID, 0, len(customers))
	for _, customer := range customers {
		ids = append(ids, customer.ID)
	}

	var events []models.CheckinEvent
	if err := s.db.Where("customer_id IN ?", ids).Order("checkin_time ASC").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list check-ins for %d customers: %w", len(ids), err)
	}

	byCustomer := make(map[uuid.UUID][]models.CheckinEvent, len(customers))
	for _, event := range events {
		byCustomer[event.CustomerID] = append(byCustomer[event.CustomerID], event)
	}

	aggregates := loyalty.AggregateAll(customers, byCustomer, s.policy)
	for i, customer := range customers {
		summaries = append(summaries, CustomerSummary{Customer: customer, Aggregate: aggregates[i]})
	}
	return summaries, nil
}

func (s *LoyaltyService) notifyReward(businessID uuid.UUID, phone string, visits int, tier rewards.Tier) {
	var business models.Business
	if err := s.db.First(&business, "id = ?", businessID).Error; err != nil {
		log.Printf("reward notification: load business %s: %v", businessID, err)
		return
	}

	err := s.telegram.NotifyRewardUnlocked(RewardNotification{
		BusinessName:    business.Name,
		CustomerPhone:   phone,
		Visits:          visits,
		TierDescription: tier.Description,
		TierValue:       tier.Value,
	})
	if err != nil {
		log.Printf("reward notification for %s: %v", phone, err)
	}
}
