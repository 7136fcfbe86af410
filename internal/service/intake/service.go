package intake

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shopintake/internal/domain"
	"github.com/vladislavdragonenkov/shopintake/internal/metrics"
)

// SubmitSuccessMessage возвращается клиенту при успешном приёме заявки.
const SubmitSuccessMessage = "Order submitted successfully! We will contact you within 2 hours with a detailed quote."

// Причины отказа для метрики submit_failures.
const (
	failureReasonValidation = "validation"
	failureReasonStorage    = "storage"
)

// SubmitItem — товарная позиция в заявке клиента.
type SubmitItem struct {
	ProductName string
	ProductURL  string
	Quantity    int32
	Notes       string
}

// SubmitRequest — входные данные формы заявки.
type SubmitRequest struct {
	CustomerName    string
	Phone           string
	District        string
	DeliveryAddress string
	Urgency         string
	Items           []SubmitItem
}

// SubmitResult — результат успешного приёма заявки.
type SubmitResult struct {
	OrderID  string
	Message  string
	Estimate domain.CostEstimate
}

// Service реализует приём заявок, выдачу списка заказов и смену статусов
// поверх доменного репозитория и кэша списка.
type Service struct {
	repo    domain.OrderRepository
	cache   domain.ListingCache
	events  domain.OrderEventPublisher
	metrics *metrics.IntakeMetrics
	logger  *log.Entry
}

// NewService конструирует сервис с зависимостями. events и metrics опциональны:
// без брокера события не публикуются, без метрик счётчики не растут.
func NewService(
	repo domain.OrderRepository,
	cache domain.ListingCache,
	events domain.OrderEventPublisher,
	intakeMetrics *metrics.IntakeMetrics,
	logger *log.Entry,
) *Service {
	if logger == nil {
		logger = log.WithField("component", "intake-service")
	}
	return &Service{
		repo:    repo,
		cache:   cache,
		events:  events,
		metrics: intakeMetrics,
		logger:  logger,
	}
}

// Submit валидирует заявку, считает предварительную стоимость и сохраняет
// заказ. Валидация выполняется целиком до любого обращения к хранилищу;
// все замечания возвращаются одной объединённой ошибкой.
func (s *Service) Submit(req SubmitRequest) (SubmitResult, error) {
	urgency, err := domain.ParseUrgency(req.Urgency)
	if err != nil {
		// Оставляем сырое значение: ValidateInvariants добавит замечание,
		// и клиент получит его вместе с остальными.
		urgency = domain.Urgency(req.Urgency)
	}

	now := time.Now().UTC()
	items := make([]domain.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, domain.OrderItem{
			ID:          uuid.NewString(),
			ProductName: item.ProductName,
			ProductURL:  item.ProductURL,
			Quantity:    item.Quantity,
			Notes:       item.Notes,
			CreatedAt:   now,
		})
	}

	order := domain.Order{
		ID:              uuid.NewString(),
		CustomerName:    req.CustomerName,
		Phone:           req.Phone,
		District:        req.District,
		DeliveryAddress: req.DeliveryAddress,
		Urgency:         urgency,
		Status:          domain.OrderStatusPending,
		Items:           items,
		CreatedAt:       now,
	}

	if errs := order.ValidateInvariants(); len(errs) > 0 {
		s.recordSubmitFailure(failureReasonValidation)
		return SubmitResult{}, errors.Join(errs...)
	}

	estimate, err := domain.EstimateCost(len(order.Items), order.Urgency)
	if err != nil {
		s.recordSubmitFailure(failureReasonValidation)
		return SubmitResult{}, err
	}
	order.TotalEstimatedCost = nullDecimal(estimate.Total)
	order.ServiceFee = nullDecimal(estimate.ServiceFee)
	order.ShippingCost = nullDecimal(estimate.ShippingCost)

	if err := s.repo.Create(order); err != nil {
		s.recordSubmitFailure(failureReasonStorage)
		s.logger.WithError(err).WithField("order_id", order.ID).Error("failed to persist order")
		return SubmitResult{}, fmt.Errorf("create order: %w", err)
	}

	s.invalidateListing()
	s.publishOrderCreated(order)
	if s.metrics != nil {
		s.metrics.RecordOrderSubmitted(string(order.Urgency), estimate.Total.InexactFloat64())
	}

	s.logger.WithFields(log.Fields{
		"order_id": order.ID,
		"urgency":  order.Urgency,
		"items":    len(order.Items),
	}).Info("order submitted")

	return SubmitResult{
		OrderID:  order.ID,
		Message:  SubmitSuccessMessage,
		Estimate: estimate,
	}, nil
}

// List возвращает все заказы с позициями, новые первыми.
// Сначала проверяется кэш; на промахе результат читается из репозитория
// и кладётся в кэш с поколением, увиденным на промахе. Если за время
// чтения заказ был отправлен или сменил статус, поколение сместилось
// и кэш отбросит устаревший снапшот.
func (s *Service) List() ([]domain.Order, error) {
	var generation uint64
	if s.cache != nil {
		orders, gen, ok := s.cache.Get()
		if ok {
			if s.metrics != nil {
				s.metrics.RecordListingCacheHit()
			}
			return orders, nil
		}
		generation = gen
		if s.metrics != nil {
			s.metrics.RecordListingCacheMiss()
		}
	}

	orders, err := s.repo.List()
	if err != nil {
		s.logger.WithError(err).Error("failed to list orders")
		return nil, fmt.Errorf("list orders: %w", err)
	}

	if s.cache != nil {
		s.cache.Set(orders, generation)
	}
	return orders, nil
}

// Get возвращает один заказ по идентификатору.
func (s *Service) Get(orderID string) (domain.Order, error) {
	order, err := s.repo.Get(orderID)
	if err != nil {
		if !errors.Is(err, domain.ErrOrderNotFound) {
			s.logger.WithError(err).WithField("order_id", orderID).Error("failed to load order")
		}
		return domain.Order{}, err
	}
	return order, nil
}

// UpdateStatus переводит заказ в указанный статус. Незнакомый статус
// отклоняется до обращения к хранилищу; повторная установка того же
// статуса не считается ошибкой.
func (s *Service) UpdateStatus(orderID, rawStatus string) error {
	status, err := domain.ParseOrderStatus(rawStatus)
	if err != nil {
		return err
	}

	if err := s.repo.UpdateStatus(orderID, status); err != nil {
		if !errors.Is(err, domain.ErrOrderNotFound) {
			s.logger.WithError(err).WithFields(log.Fields{
				"order_id": orderID,
				"status":   status,
			}).Error("failed to update order status")
		}
		return err
	}

	s.invalidateListing()
	s.publishStatusChanged(orderID, status)
	if s.metrics != nil {
		s.metrics.RecordStatusTransition(string(status))
	}

	s.logger.WithFields(log.Fields{
		"order_id": orderID,
		"status":   status,
	}).Info("order status updated")

	return nil
}

// Ping проверяет доступность хранилища заказов.
func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func (s *Service) invalidateListing() {
	if s.cache != nil {
		s.cache.Invalidate()
	}
}

// Публикация событий best-effort: брокер может быть выключен или недоступен,
// на результат операции это не влияет.
func (s *Service) publishOrderCreated(order domain.Order) {
	if s.events == nil {
		return
	}
	if err := s.events.OrderCreated(order); err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Warn("failed to publish order.created event")
	}
}

func (s *Service) publishStatusChanged(orderID string, status domain.OrderStatus) {
	if s.events == nil {
		return
	}
	if err := s.events.OrderStatusChanged(orderID, status); err != nil {
		s.logger.WithError(err).WithField("order_id", orderID).Warn("failed to publish order.status_changed event")
	}
}

func (s *Service) recordSubmitFailure(reason string) {
	if s.metrics != nil {
		s.metrics.RecordSubmitFailure(reason)
	}
}

func nullDecimal(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}
