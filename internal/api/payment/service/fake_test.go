package paymentService

import (
	"context"
	"errors"
	"mime/multipart"
	"sort"
	"sync"
	"time"

	"EsimMyanmar/internal/api/payment"
	paymentRepository "EsimMyanmar/internal/api/payment/repository"
	"EsimMyanmar/internal/entity"
	"EsimMyanmar/pkg/transactease"
)

type fakeOrderStore struct {
	mu      sync.Mutex
	orders  map[string]entity.PaymentOrder
	updates int
	commits int

	failCreate bool
	failUpdate bool
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: map[string]entity.PaymentOrder{}}
}

func (f *fakeOrderStore) NewClient(bool) (paymentRepository.Client, error) {
	return paymentRepository.Client{
		Order: f,
		Commit: func() error {
			f.mu.Lock()
			f.commits++
			f.mu.Unlock()
			return nil
		},
		Rollback: func() error { return nil },
	}, nil
}

func (f *fakeOrderStore) CreateOrder(_ context.Context, order entity.PaymentOrder) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate {
		return errors.New("insert failed")
	}
	f.orders[order.ID] = order
	return nil
}

func (f *fakeOrderStore) GetOrderByID(_ context.Context, id string) (entity.PaymentOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[id]
	if !ok {
		return entity.PaymentOrder{}, payment.ErrOrderNotFound
	}
	return order, nil
}

func (f *fakeOrderStore) GetOrderByRequestID(_ context.Context, requestID string) (entity.PaymentOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, order := range f.orders {
		if requestID != "" && order.RequestID == requestID {
			return order, nil
		}
	}
	return entity.PaymentOrder{}, payment.ErrOrderNotFound
}

func (f *fakeOrderStore) LockOrderByRequestID(ctx context.Context, requestID string) (entity.PaymentOrder, error) {
	return f.GetOrderByRequestID(ctx, requestID)
}

func (f *fakeOrderStore) UpdateOrderStatus(_ context.Context, id string, update entity.PaymentOrderUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpdate {
		return errors.New("update failed")
	}
	order, ok := f.orders[id]
	if !ok {
		return payment.ErrOrderNotFound
	}
	order.Status = update.Status
	order.ResponseCode = update.ResponseCode
	if update.TransactionID != "" {
		order.TransactionID = update.TransactionID
	}
	if update.TransactionReference != "" {
		order.TransactionReference = update.TransactionReference
	}
	f.orders[id] = order
	f.updates++
	return nil
}

func (f *fakeOrderStore) UpdateProofURL(_ context.Context, id string, proofURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpdate {
		return errors.New("update failed")
	}
	order, ok := f.orders[id]
	if !ok {
		return payment.ErrOrderNotFound
	}
	order.ProofURL = proofURL
	f.orders[id] = order
	return nil
}

func (f *fakeOrderStore) ListOrdersByUserID(_ context.Context, userID string, limit, offset int) ([]entity.PaymentOrder, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []entity.PaymentOrder
	for _, order := range f.orders {
		if order.UserID == userID {
			all = append(all, order)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	total := len(all)
	if offset >= total {
		return []entity.PaymentOrder{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (f *fakeOrderStore) get(id string) entity.PaymentOrder {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orders[id]
}

type fakeRedis struct {
	mu     sync.Mutex
	values map[string]string
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: map[string]string{}}
}

func (r *fakeRedis) Set(_ context.Context, key, value string, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = value
	return nil
}

func (r *fakeRedis) Get(_ context.Context, key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.values[key]
	if !ok {
		return "", errors.New("key not found")
	}
	return v, nil
}

func (r *fakeRedis) SetNX(_ context.Context, key, value string, _ time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.values[key]; ok {
		return false, nil
	}
	r.values[key] = value
	return true, nil
}

func (r *fakeRedis) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.values, key)
	return nil
}

type fakeStorage struct {
	uploaded []string
	deleted  []string
}

func (s *fakeStorage) UploadFile(file *multipart.FileHeader, prefix string) (string, error) {
	location := "https://bucket.s3.amazonaws.com/" + prefix + "/" + file.Filename
	s.uploaded = append(s.uploaded, location)
	return location, nil
}

func (s *fakeStorage) PresignUrl(fileUrl string) (string, error) {
	return fileUrl + "?signed=1", nil
}

func (s *fakeStorage) DeleteFile(fileUrl string) error {
	s.deleted = append(s.deleted, fileUrl)
	return nil
}

type fakeUtils struct {
	next    int
	fileErr error
}

func (u *fakeUtils) NewULIDFromTimestamp(time.Time) (string, error) {
	u.next++
	return "ULID" + string(rune('0'+u.next)), nil
}

func (u *fakeUtils) NewOrderID(time.Time) (string, error) {
	u.next++
	return "ESIM-" + string(rune('0'+u.next)), nil
}

func (u *fakeUtils) ValidateImageFile(*multipart.FileHeader) error {
	return u.fileErr
}

type fakeStatusClient struct {
	resp *transactease.StatusResponse
	err  error
}

func (c *fakeStatusClient) TransactionStatus(context.Context, string, string) (*transactease.StatusResponse, error) {
	return c.resp, c.err
}
