package booking

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"zapisbot/internal/model"
)

// Шаги диалога создания слота
type Step string

const (
	StepNone     Step = ""               // Нет активного диалога
	StepDate     Step = "enter_date"     // Ожидаем дату
	StepTime     Step = "enter_time"     // Ожидаем время начала
	StepDuration Step = "enter_duration" // Ожидаем длительность
	StepConfirm  Step = "confirm"        // Ожидаем подтверждение
)

const (
	DateLayout = "02.01.2006"
	TimeLayout = "15:04"

	// Черновик, не тронутый дольше этого срока, выбрасывается
	DefaultSessionTTL = 30 * time.Minute
)

var (
	// ErrInvalidInput - ввод не прошёл локальную валидацию; шаг не меняется
	ErrInvalidInput = errors.New("invalid input")
	// ErrNoSession - для сессии нет активного диалога
	ErrNoSession = errors.New("no active booking flow")
)

// SlotCreator - кусок планировщика слотов, нужный диалогу на шаге подтверждения
type SlotCreator interface {
	AddSlot(ctx context.Context, slot *model.Slot) (*model.Slot, error)
}

// Draft - накопленные поля будущего слота. Все поля опциональны до заполнения
type Draft struct {
	Date     *time.Time // только дата, без времени
	Time     *time.Time // только часы и минуты
	Duration *int       // минуты
}

type session struct {
	step      Step
	draft     Draft
	updatedAt time.Time
}

// Result - итог обработки события диалога
type Result struct {
	Step   Step
	Prompt string      // сообщение пользователю
	Slot   *model.Slot // заполнен после успешного подтверждения
}

// Flow - машина состояний диалога создания слота.
// Одна сессия - один черновик; повторный Start перетирает старый
type Flow struct {
	mu       sync.Mutex
	sessions map[int64]*session

	slots  SlotCreator
	logger *zap.Logger
	now    func() time.Time
	ttl    time.Duration
}

func NewFlow(slots SlotCreator, logger *zap.Logger, now func() time.Time) *Flow {
	if now == nil {
		now = time.Now
	}
	return &Flow{
		sessions: make(map[int64]*session),
		slots:    slots,
		logger:   logger,
		now:      now,
		ttl:      DefaultSessionTTL,
	}
}

// Start начинает диалог, перетирая возможный прежний черновик
func (f *Flow) Start(sessionID int64) Result {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.sessions[sessionID] = &session{
		step:      StepDate,
		updatedAt: f.now(),
	}

	return Result{
		Step: StepDate,
		Prompt: "📅 Введите дату встречи в формате ДД.ММ.ГГГГ\n" +
			"Например: 15.12.2026",
	}
}

// Step возвращает текущий шаг диалога (StepNone если диалога нет)
func (f *Flow) Step(sessionID int64) Step {
	f.mu.Lock()
	defer f.mu.Unlock()

	sess := f.active(sessionID)
	if sess == nil {
		return StepNone
	}
	return sess.step
}

// SubmitDate обрабатывает ввод даты. Прошедшие даты и мусор
// не продвигают шаг - пользователю предлагается повторить ввод
func (f *Flow) SubmitDate(sessionID int64, text string) (Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	sess := f.active(sessionID)
	if sess == nil || sess.step != StepDate {
		return Result{Step: StepNone}, ErrNoSession
	}

	date, err := time.ParseInLocation(DateLayout, text, time.Local)
	if err != nil {
		return Result{
			Step: StepDate,
			Prompt: "❌ Неверный формат даты. Используйте ДД.ММ.ГГГГ\n" +
				"Попробуйте снова:",
		}, fmt.Errorf("%w: bad date %q", ErrInvalidInput, text)
	}

	if date.Before(f.today()) {
		return Result{
			Step:   StepDate,
			Prompt: "❌ Дата уже прошла. Введите сегодняшнюю или будущую дату:",
		}, fmt.Errorf("%w: past date %q", ErrInvalidInput, text)
	}

	sess.draft.Date = &date
	sess.step = StepTime
	sess.updatedAt = f.now()

	return Result{
		Step: StepTime,
		Prompt: "⏰ Введите время начала в формате ЧЧ:ММ\n" +
			"Например: 14:30",
	}, nil
}

// SubmitTime обрабатывает ввод времени начала
func (f *Flow) SubmitTime(sessionID int64, text string) (Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	sess := f.active(sessionID)
	if sess == nil || sess.step != StepTime {
		return Result{Step: StepNone}, ErrNoSession
	}

	t, err := time.Parse(TimeLayout, text)
	if err != nil {
		return Result{
			Step: StepTime,
			Prompt: "❌ Неверный формат времени. Используйте ЧЧ:ММ\n" +
				"Попробуйте снова:",
		}, fmt.Errorf("%w: bad time %q", ErrInvalidInput, text)
	}

	sess.draft.Time = &t
	sess.step = StepDuration
	sess.updatedAt = f.now()

	return Result{
		Step:   StepDuration,
		Prompt: "⏱️ Выберите продолжительность встречи:",
	}, nil
}

// SubmitDuration обрабатывает выбор длительности: одну из кнопок
// (30/60/90/120), "custom" для ручного ввода или число минут
func (f *Flow) SubmitDuration(sessionID int64, choice string) (Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	sess := f.active(sessionID)
	if sess == nil || sess.step != StepDuration {
		return Result{Step: StepNone}, ErrNoSession
	}

	if choice == "custom" {
		return Result{
			Step:   StepDuration,
			Prompt: "✏️ Введите длительность в минутах (от 15 до 480):",
		}, nil
	}

	minutes, err := strconv.Atoi(choice)
	if err != nil || minutes < model.SlotMinDuration || minutes > model.SlotMaxDuration {
		return Result{
			Step: StepDuration,
			Prompt: fmt.Sprintf("❌ Длительность должна быть от %d до %d минут.\n"+
				"Попробуйте снова:", model.SlotMinDuration, model.SlotMaxDuration),
		}, fmt.Errorf("%w: bad duration %q", ErrInvalidInput, choice)
	}

	sess.draft.Duration = &minutes
	sess.step = StepConfirm
	sess.updatedAt = f.now()

	return Result{
		Step:   StepConfirm,
		Prompt: confirmationText(sess.draft),
	}, nil
}

// Confirm собирает слот из черновика и отдаёт его планировщику.
// Диалог завершается в любом случае: и при успехе, и при конфликте
func (f *Flow) Confirm(ctx context.Context, sessionID int64) (Result, error) {
	f.mu.Lock()
	sess := f.active(sessionID)
	if sess == nil || sess.step != StepConfirm {
		f.mu.Unlock()
		return Result{Step: StepNone}, ErrNoSession
	}

	draft := sess.draft
	delete(f.sessions, sessionID)
	f.mu.Unlock()

	start := combine(*draft.Date, *draft.Time)
	slot := &model.Slot{
		StartTime:       start,
		EndTime:         start.Add(time.Duration(*draft.Duration) * time.Minute),
		DurationMinutes: *draft.Duration,
	}

	created, err := f.slots.AddSlot(ctx, slot)
	if err != nil {
		f.logger.Warn("Slot creation failed on confirm",
			zap.Int64("session_id", sessionID),
			zap.Error(err))
		return Result{Step: StepNone}, err
	}

	return Result{
		Step: StepNone,
		Prompt: fmt.Sprintf("✅ Слот #%d успешно сохранён!\n"+
			"Для возврата в меню нажмите /start", created.ID),
		Slot: created,
	}, nil
}

// Cancel сбрасывает диалог на любом шаге. Ничего не сохраняется
func (f *Flow) Cancel(sessionID int64) Result {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.sessions, sessionID)

	return Result{
		Step: StepNone,
		Prompt: "❌ Добавление слота отменено.\n" +
			"Для возврата в меню нажмите /start",
	}
}

// EvictIdle выбрасывает простаивающие черновики, возвращает их число
func (f *Flow) EvictIdle() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	evicted := 0
	deadline := f.now().Add(-f.ttl)
	for id, sess := range f.sessions {
		if sess.updatedAt.Before(deadline) {
			delete(f.sessions, id)
			evicted++
		}
	}

	return evicted
}

// active возвращает сессию, попутно выбрасывая протухшую. Вызывать под mu
func (f *Flow) active(sessionID int64) *session {
	sess, ok := f.sessions[sessionID]
	if !ok {
		return nil
	}
	if sess.updatedAt.Before(f.now().Add(-f.ttl)) {
		delete(f.sessions, sessionID)
		return nil
	}
	return sess
}

func (f *Flow) today() time.Time {
	now := f.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
}

// combine склеивает дату и время в один момент
func combine(date, t time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(),
		t.Hour(), t.Minute(), 0, 0, time.Local)
}

func confirmationText(draft Draft) string {
	return fmt.Sprintf(
		"📋 Проверьте введённые данные:\n\n"+
			"📅 Дата: %s\n"+
			"⏰ Время начала: %s\n"+
			"⏱️ Продолжительность: %d минут\n\n"+
			"Всё верно?",
		draft.Date.Format(DateLayout),
		draft.Time.Format(TimeLayout),
		*draft.Duration,
	)
}
