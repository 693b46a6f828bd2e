package service

import (
	"context"
	"sort"
	"time"

	"zapisbot/internal/model"
	"zapisbot/internal/repository"
)

// Фейковые хранилища в памяти. Воспроизводят контракт репозиториев,
// включая сентинелы repository.ErrOverlap и repository.ErrSlotTaken

type fakeSlotStore struct {
	slots  map[int64]*model.Slot
	nextID int64
}

func newFakeSlotStore() *fakeSlotStore {
	return &fakeSlotStore{slots: make(map[int64]*model.Slot), nextID: 1}
}

func (f *fakeSlotStore) CreateExclusive(_ context.Context, slot *model.Slot) error {
	for _, existing := range f.slots {
		if existing.Intersects(slot) {
			return repository.ErrOverlap
		}
	}

	slot.ID = f.nextID
	f.nextID++
	slot.CreatedAt = time.Now()

	stored := *slot
	f.slots[slot.ID] = &stored
	return nil
}

func (f *fakeSlotStore) GetByID(_ context.Context, id int64) (*model.Slot, error) {
	slot, ok := f.slots[id]
	if !ok {
		return nil, nil
	}
	copied := *slot
	return &copied, nil
}

func (f *fakeSlotStore) List(_ context.Context) ([]*model.Slot, error) {
	var slots []*model.Slot
	for _, slot := range f.slots {
		copied := *slot
		slots = append(slots, &copied)
	}
	sort.Slice(slots, func(i, j int) bool {
		return slots[i].StartTime.Before(slots[j].StartTime)
	})
	return slots, nil
}

func (f *fakeSlotStore) ListBetween(_ context.Context, from, to time.Time) ([]*model.Slot, error) {
	var slots []*model.Slot
	for _, slot := range f.slots {
		if slot.StartTime.Before(from) || slot.StartTime.After(to) {
			continue
		}
		copied := *slot
		slots = append(slots, &copied)
	}
	sort.Slice(slots, func(i, j int) bool {
		return slots[i].StartTime.Before(slots[j].StartTime)
	})
	return slots, nil
}

func (f *fakeSlotStore) DeleteByID(_ context.Context, id int64) (int64, error) {
	if _, ok := f.slots[id]; !ok {
		return 0, nil
	}
	delete(f.slots, id)
	return 1, nil
}

func (f *fakeSlotStore) DeleteBetween(_ context.Context, from, to time.Time) (int64, error) {
	var deleted int64
	for id, slot := range f.slots {
		if !slot.StartTime.Before(from) && !slot.EndTime.After(to) {
			delete(f.slots, id)
			deleted++
		}
	}
	return deleted, nil
}

type fakeAppointmentStore struct {
	appointments map[int64]*model.Appointment
	slots        *fakeSlotStore
	nextID       int64
}

func newFakeAppointmentStore(slots *fakeSlotStore) *fakeAppointmentStore {
	return &fakeAppointmentStore{
		appointments: make(map[int64]*model.Appointment),
		slots:        slots,
		nextID:       1,
	}
}

func (f *fakeAppointmentStore) Create(_ context.Context, appointment *model.Appointment) error {
	for _, existing := range f.appointments {
		if existing.SlotID == appointment.SlotID && existing.Status.IsLive() {
			return repository.ErrSlotTaken
		}
	}

	appointment.ID = f.nextID
	f.nextID++
	appointment.CreatedAt = time.Now()

	stored := *appointment
	f.appointments[appointment.ID] = &stored
	return nil
}

func (f *fakeAppointmentStore) GetByID(_ context.Context, id int64) (*model.Appointment, error) {
	appointment, ok := f.appointments[id]
	if !ok {
		return nil, nil
	}
	copied := *appointment
	return &copied, nil
}

func (f *fakeAppointmentStore) GetLiveBySlotID(_ context.Context, slotID int64) (*model.Appointment, error) {
	for _, appointment := range f.appointments {
		if appointment.SlotID == slotID && appointment.Status.IsLive() {
			copied := *appointment
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeAppointmentStore) ListByClientID(_ context.Context, clientID int64) ([]*model.Appointment, error) {
	var appointments []*model.Appointment
	for _, appointment := range f.appointments {
		if appointment.ClientID == clientID {
			copied := *appointment
			appointments = append(appointments, &copied)
		}
	}
	sort.Slice(appointments, func(i, j int) bool {
		return appointments[i].ID < appointments[j].ID
	})
	return appointments, nil
}

func (f *fakeAppointmentStore) ListPending(_ context.Context) ([]*model.Appointment, error) {
	var appointments []*model.Appointment
	for _, appointment := range f.appointments {
		if appointment.Status == model.AppointmentStatusPending {
			copied := *appointment
			appointments = append(appointments, &copied)
		}
	}
	sort.Slice(appointments, func(i, j int) bool {
		return appointments[i].ID < appointments[j].ID
	})
	return appointments, nil
}

func (f *fakeAppointmentStore) ListElapsedConfirmed(_ context.Context, now time.Time) ([]*model.Appointment, error) {
	var appointments []*model.Appointment
	for _, appointment := range f.appointments {
		if appointment.Status != model.AppointmentStatusConfirmed {
			continue
		}
		slot, ok := f.slots.slots[appointment.SlotID]
		if !ok || slot.EndTime.After(now) {
			continue
		}
		copied := *appointment
		appointments = append(appointments, &copied)
	}
	return appointments, nil
}

func (f *fakeAppointmentStore) UpdateStatus(_ context.Context, id int64, status model.AppointmentStatus) (int64, error) {
	appointment, ok := f.appointments[id]
	if !ok {
		return 0, nil
	}
	appointment.Status = status
	return 1, nil
}

func (f *fakeAppointmentStore) UpdateSlotID(_ context.Context, id, slotID int64) error {
	appointment, ok := f.appointments[id]
	if !ok {
		return nil
	}
	for _, existing := range f.appointments {
		if existing.ID != id && existing.SlotID == slotID && existing.Status.IsLive() {
			return repository.ErrSlotTaken
		}
	}
	appointment.SlotID = slotID
	return nil
}

type fakeUserStore struct {
	users map[int64]*model.User // по tg_user_id
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int64]*model.User)}
}

func (f *fakeUserStore) Upsert(_ context.Context, user *model.User) error {
	if existing, ok := f.users[user.TgUserID]; ok {
		user.ID = existing.ID
		user.CreatedAt = existing.CreatedAt
	} else {
		user.ID = int64(len(f.users) + 1)
		user.CreatedAt = time.Now()
	}
	stored := *user
	f.users[user.TgUserID] = &stored
	return nil
}

func (f *fakeUserStore) GetByTgID(_ context.Context, tgUserID int64) (*model.User, error) {
	user, ok := f.users[tgUserID]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

type fakeClientStore struct {
	clients map[int64]*model.Client // по tg_user_id
}

func newFakeClientStore() *fakeClientStore {
	return &fakeClientStore{clients: make(map[int64]*model.Client)}
}

func (f *fakeClientStore) Upsert(_ context.Context, client *model.Client) error {
	if existing, ok := f.clients[client.TgUserID]; ok {
		client.ID = existing.ID
		client.CreatedAt = existing.CreatedAt
	} else {
		client.ID = int64(len(f.clients) + 1)
		client.CreatedAt = time.Now()
	}
	stored := *client
	f.clients[client.TgUserID] = &stored
	return nil
}

func (f *fakeClientStore) GetByID(_ context.Context, id int64) (*model.Client, error) {
	for _, client := range f.clients {
		if client.ID == id {
			copied := *client
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeClientStore) GetByTgID(_ context.Context, tgUserID int64) (*model.Client, error) {
	client, ok := f.clients[tgUserID]
	if !ok {
		return nil, nil
	}
	copied := *client
	return &copied, nil
}
