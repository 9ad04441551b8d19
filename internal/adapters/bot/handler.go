package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"tg-astro-bot/internal/adapters/heavens"
	"tg-astro-bot/internal/adapters/telegram"
	"tg-astro-bot/internal/args"
	"tg-astro-bot/internal/domain"
	"tg-astro-bot/internal/infra/metrics"
	"tg-astro-bot/internal/usecase/accounts"
	"tg-astro-bot/internal/usecase/locations"
	"tg-astro-bot/internal/usecase/night"
	"tg-astro-bot/internal/usecase/observer"
)

// Номер МКС в каталоге NORAD.
const issID = 25544

// Горизонт астрономических сумерек в градусах.
const twilightHorizon = -18.0

// Handler обслуживает вебхук бота.
type Handler struct {
	bot        *tgbotapi.BotAPI
	log        zerolog.Logger
	accountUC  *accounts.Service
	locationUC *locations.Service
	observerUC *observer.Service
	eph        domain.Ephemeris
	sats       domain.SatelliteAPI
	tz         *time.Location
}

// NewHandler создаёт обработчик.
func NewHandler(bot *tgbotapi.BotAPI, log zerolog.Logger, accountUC *accounts.Service, locationUC *locations.Service, observerUC *observer.Service, eph domain.Ephemeris, sats domain.SatelliteAPI, tz *time.Location) *Handler {
	return &Handler{
		bot:        bot,
		log:        log,
		accountUC:  accountUC,
		locationUC: locationUC,
		observerUC: observerUC,
		eph:        eph,
		sats:       sats,
		tz:         tz,
	}
}

// HandleUpdate обрабатывает входящий апдейт.
func (h *Handler) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.Message == nil {
		return
	}
	reqID := uuid.NewString()
	logger := h.log.With().Str("req_id", reqID).Logger()
	h.handleMessage(ctx, logger, upd.Message)
}

func (h *Handler) handleMessage(ctx context.Context, logger zerolog.Logger, msg *tgbotapi.Message) {
	text := strings.TrimSpace(msg.Text)
	if !strings.HasPrefix(text, "/") {
		return
	}
	if msg.From == nil {
		h.reply(msg.Chat.ID, "Не удалось определить пользователя")
		return
	}

	command := text
	payload := ""
	if idx := strings.IndexAny(text, " \t"); idx > 0 {
		command = text[:idx]
		payload = strings.TrimSpace(text[idx:])
	}
	if idx := strings.Index(command, "@"); idx > 0 {
		command = command[:idx]
	}
	metrics.IncCommand(strings.TrimPrefix(command, "/"))
	logger.Debug().Str("command", command).Int64("tg_user_id", msg.From.ID).Msg("bot: команда")

	chatID := msg.Chat.ID
	tgUserID := msg.From.ID

	switch command {
	case "/start", "/help":
		h.reply(chatID, h.buildHelpMessage())
	case "/reg":
		h.handleReg(chatID, tgUserID)
	case "/unreg":
		h.handleUnreg(chatID, tgUserID)
	case "/prof":
		h.handleProfile(chatID, tgUserID)
	case "/addloc":
		h.handleAddLocation(chatID, tgUserID, payload)
	case "/rmloc":
		h.handleRemoveLocation(chatID, tgUserID, payload)
	case "/setloc":
		h.handleSetDefaultLocation(chatID, tgUserID, payload)
	case "/lsloc":
		h.handleListLocations(chatID, tgUserID)
	case "/sun":
		h.handleRiseSet(chatID, tgUserID, payload, domain.BodySun, 0)
	case "/moon":
		h.handleMoon(chatID, tgUserID, payload)
	case "/tw":
		h.handleRiseSet(chatID, tgUserID, payload, domain.BodySun, twilightHorizon)
	case "/night":
		h.handleNight(chatID, tgUserID, payload)
	case "/mer":
		h.handleRiseSet(chatID, tgUserID, payload, domain.BodyMercury, 0)
	case "/ven":
		h.handleRiseSet(chatID, tgUserID, payload, domain.BodyVenus, 0)
	case "/mar":
		h.handleRiseSet(chatID, tgUserID, payload, domain.BodyMars, 0)
	case "/jup":
		h.handleRiseSet(chatID, tgUserID, payload, domain.BodyJupiter, 0)
	case "/sat":
		h.handleRiseSet(chatID, tgUserID, payload, domain.BodySaturn, 0)
	case "/satinfo":
		h.handleSatelliteInfo(ctx, chatID, payload)
	case "/satpass":
		h.handleSatellitePasses(ctx, chatID, tgUserID, payload, 0)
	case "/iss":
		h.handleSatellitePasses(ctx, chatID, tgUserID, payload, issID)
	case "/iri":
		h.handleFlares(ctx, chatID, tgUserID, payload)
	default:
		h.reply(chatID, "Неизвестная команда. Используйте /help")
	}
}

func (h *Handler) handleReg(chatID, tgUserID int64) {
	user, err := h.accountUC.Register(tgUserID)
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	h.reply(chatID, fmt.Sprintf("Пользователь %d зарегистрирован.", user.TGUserID))
}

func (h *Handler) handleUnreg(chatID, tgUserID int64) {
	if err := h.accountUC.Unregister(tgUserID); err != nil {
		h.replyError(chatID, err)
		return
	}
	h.reply(chatID, "Пользователь удалён вместе со своими локациями.")
}

func (h *Handler) handleProfile(chatID, tgUserID int64) {
	user, loc, err := h.accountUC.Profile(tgUserID)
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Пользователь: %d\n", user.TGUserID)
	if user.Descr != "" {
		fmt.Fprintf(&b, "Описание: %s\n", user.Descr)
	}
	b.WriteString("Локация по умолчанию: ")
	if loc == nil {
		b.WriteString("не задана")
	} else {
		fmt.Fprintf(&b, "%s [%.5f, %.5f]", loc.Name, loc.Lon, loc.Lat)
	}
	h.reply(chatID, b.String())
}

func (h *Handler) handleAddLocation(chatID, tgUserID int64, payload string) {
	name, lon, lat, err := args.ParseAddLocation(payload)
	if err != nil {
		h.reply(chatID, "Использование: /addloc имя долгота широта\nНапример: /addloc дом 15°3'26\"E 50°45'40\"N\nили: /addloc дом 15.057 50.761")
		return
	}
	loc, err := h.locationUC.Add(tgUserID, name, lon, lat)
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	h.reply(chatID, fmt.Sprintf("Локация добавлена: %s [%.5f, %.5f]", loc.Name, loc.Lon, loc.Lat))
}

func (h *Handler) handleRemoveLocation(chatID, tgUserID int64, payload string) {
	name := strings.TrimSpace(payload)
	if name == "" {
		h.reply(chatID, "Использование: /rmloc имя")
		return
	}
	if err := h.locationUC.Remove(tgUserID, name); err != nil {
		h.replyError(chatID, err)
		return
	}
	h.reply(chatID, fmt.Sprintf("Локация %s удалена.", name))
}

func (h *Handler) handleSetDefaultLocation(chatID, tgUserID int64, payload string) {
	name := strings.TrimSpace(payload)
	if name == "" {
		h.reply(chatID, "Использование: /setloc имя")
		return
	}
	loc, err := h.locationUC.SetDefault(tgUserID, name)
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	h.reply(chatID, fmt.Sprintf("Локация по умолчанию: %s", loc.Name))
}

func (h *Handler) handleListLocations(chatID, tgUserID int64) {
	locs, err := h.locationUC.List(tgUserID)
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	if len(locs) == 0 {
		h.reply(chatID, "Локаций пока нет. Добавьте первую: /addloc")
		return
	}
	var b strings.Builder
	for _, loc := range locs {
		fmt.Fprintf(&b, "%s [%.5f, %.5f]\n", loc.Name, loc.Lon, loc.Lat)
	}
	h.reply(chatID, b.String())
}

func (h *Handler) resolveObserver(chatID, tgUserID int64, payload string) (domain.Observer, bool) {
	parsed, err := args.Parse(payload)
	if err != nil {
		h.replyError(chatID, err)
		return domain.Observer{}, false
	}
	obs, err := h.observerUC.Resolve(tgUserID, parsed, time.Now())
	if err != nil {
		h.replyError(chatID, err)
		return domain.Observer{}, false
	}
	return obs, true
}

func (h *Handler) handleRiseSet(chatID, tgUserID int64, payload string, body domain.Body, horizon float64) {
	obs, ok := h.resolveObserver(chatID, tgUserID, payload)
	if !ok {
		return
	}
	res, err := h.eph.NextRiseSet(obs, body, horizon, obs.At)
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	h.reply(chatID, h.formatSetRise(res))
}

func (h *Handler) handleMoon(chatID, tgUserID int64, payload string) {
	obs, ok := h.resolveObserver(chatID, tgUserID, payload)
	if !ok {
		return
	}
	res, err := h.eph.NextRiseSet(obs, domain.BodyMoon, 0, obs.At)
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	phase, err := h.eph.MoonPhase(obs.At)
	if err != nil {
		h.replyError(chatID, err)
		return
	}

	var b strings.Builder
	switch res.Kind {
	case domain.RiseSetNeverRises:
		b.WriteString("Луна не восходит в ближайшие сутки.")
	case domain.RiseSetNeverSets:
		b.WriteString("Луна не заходит в ближайшие сутки.")
	default:
		fmt.Fprintf(&b, "^%s  -  v%s", h.clock(res.Rise), h.clock(res.Set))
	}
	fmt.Fprintf(&b, "  Фаза %.0f%% (%s)", phase.Fraction*100, phase.Name)
	h.reply(chatID, b.String())
}

func (h *Handler) handleNight(chatID, tgUserID int64, payload string) {
	obs, ok := h.resolveObserver(chatID, tgUserID, payload)
	if !ok {
		return
	}
	sun, err := h.eph.NextRiseSet(obs, domain.BodySun, twilightHorizon, obs.At)
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	moon, err := h.eph.NextRiseSet(obs, domain.BodyMoon, 0, obs.At)
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	h.reply(chatID, h.formatNight(night.Compose(sun, moon)))
}

func (h *Handler) handleSatelliteInfo(ctx context.Context, chatID int64, payload string) {
	satID, _, err := args.ParseSatelliteID(payload)
	if err != nil {
		h.reply(chatID, "Использование: /satinfo номерСпутника")
		return
	}
	info, err := h.sats.SatelliteInfo(ctx, satID)
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	h.reply(chatID, fmt.Sprintf("Спутник %d: %s", info.ID, info.Name))
}

func (h *Handler) handleSatellitePasses(ctx context.Context, chatID, tgUserID int64, payload string, satID int64) {
	rest := payload
	if satID == 0 {
		var err error
		satID, rest, err = args.ParseSatelliteID(payload)
		if err != nil {
			h.reply(chatID, "Использование: /satpass номерСпутника")
			return
		}
	}
	obs, ok := h.resolveObserver(chatID, tgUserID, rest)
	if !ok {
		return
	}
	passes, err := h.sats.Passes(ctx, satID, obs.Lon, obs.Lat)
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	h.reply(chatID, heavens.FormatPasses(passes, h.tz))
}

func (h *Handler) handleFlares(ctx context.Context, chatID, tgUserID int64, payload string) {
	obs, ok := h.resolveObserver(chatID, tgUserID, payload)
	if !ok {
		return
	}
	flares, err := h.sats.Flares(ctx, obs.Lon, obs.Lat)
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	h.reply(chatID, heavens.FormatFlares(flares, h.tz))
}

func (h *Handler) clock(ts time.Time) string {
	return ts.In(h.tz).Format("15:04:05")
}

func (h *Handler) formatSetRise(res domain.RiseSetResult) string {
	switch res.Kind {
	case domain.RiseSetNeverRises:
		return "Не восходит в ближайшие сутки."
	case domain.RiseSetNeverSets:
		return "Не заходит в ближайшие сутки."
	default:
		return fmt.Sprintf("v%s  -  ^%s", h.clock(res.Set), h.clock(res.Rise))
	}
}

func (h *Handler) formatNight(res domain.NightResult) string {
	switch res.Kind {
	case domain.NightNoDark:
		return "Солнце не опускается ниже астрономического горизонта, тёмного неба не будет."
	case domain.NightAllDark:
		return "Солнце не поднимается, темно весь период."
	case domain.NightMoonlit:
		return "Луна освещает небо всю ночь."
	default:
		var b strings.Builder
		b.WriteString("Тёмное небо:\n")
		for _, w := range res.Windows {
			fmt.Fprintf(&b, "%s  -  %s\n", h.clock(w.Start), h.clock(w.End))
		}
		return b.String()
	}
}

func (h *Handler) replyError(chatID int64, err error) {
	switch {
	case errors.Is(err, accounts.ErrAlreadyRegistered):
		h.reply(chatID, "Вы уже зарегистрированы.")
	case errors.Is(err, accounts.ErrNotRegistered), errors.Is(err, locations.ErrNotRegistered):
		h.reply(chatID, "Сначала зарегистрируйтесь: /reg")
	case errors.Is(err, locations.ErrLocationExists):
		h.reply(chatID, "Локация с таким именем уже есть.")
	case errors.Is(err, locations.ErrLocationNotFound), errors.Is(err, observer.ErrUnknownLocation):
		h.reply(chatID, "Локация не найдена. Список: /lsloc")
	case errors.Is(err, domain.ErrLocationLimit):
		h.reply(chatID, fmt.Sprintf("Достигнут предел в %d локаций. Удалите лишнюю: /rmloc", domain.MaxUserLocations))
	case errors.Is(err, heavens.ErrServiceUnavailable):
		h.reply(chatID, "Сервис спутниковых данных недоступен, попробуйте позже.")
	case errors.Is(err, args.ErrDuplicateToken),
		errors.Is(err, args.ErrUnexpectedToken),
		errors.Is(err, args.ErrCoordOrName),
		errors.Is(err, args.ErrCoordPair),
		errors.Is(err, args.ErrCoordRange):
		h.reply(chatID, "Не понял аргументы: "+err.Error())
	default:
		h.log.Error().Err(err).Msg("bot: внутренняя ошибка")
		h.reply(chatID, "Внутренняя ошибка, попробуйте позже.")
	}
}

func (h *Handler) reply(chatID int64, text string) {
	parts := telegram.SplitMessage(text)
	for _, part := range parts {
		msg := tgbotapi.NewMessage(chatID, part)
		start := time.Now()
		_, err := h.bot.Send(msg)
		metrics.ObserveNetworkRequest("telegram_bot", "send_message", strconv.FormatInt(chatID, 10), start, err)
		if err != nil {
			metrics.BotSendErrors.Inc()
			h.log.Error().Err(err).Msg("не удалось отправить сообщение")
			return
		}
	}
}

func (h *Handler) buildHelpMessage() string {
	return strings.Join([]string{
		"Астрономический бот. Команды:",
		"",
		"/reg - регистрация",
		"/unreg - удалить учётную запись",
		"/prof - профиль",
		"/addloc имя долгота широта - добавить локацию",
		"/rmloc имя - удалить локацию",
		"/setloc имя - локация по умолчанию",
		"/lsloc - список локаций",
		"",
		"/sun - заход и восход Солнца",
		"/moon - восход и заход Луны, фаза",
		"/tw - астрономические сумерки",
		"/night - окна тёмного неба",
		"/mer /ven /mar /jup /sat - восход и заход планет",
		"",
		"/satinfo номер - сведения о спутнике",
		"/satpass номер - пролёты спутника",
		"/iss - пролёты МКС",
		"/iri - вспышки Иридиумов",
		"",
		"К астрономическим командам можно добавить имя локации,",
		"пару координат (15°3'26\"E 50°45'40\"N) или дату 2026-04-01.",
	}, "\n")
}
