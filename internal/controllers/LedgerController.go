package controllers

import (
	"errors"
	"net/http"
	"steamledger/internal/models"
	"steamledger/internal/providers"
	"steamledger/internal/storage/interfaces"
	"steamledger/internal/structures"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cast"
)

// LedgerController serves stored tables read-only.
type LedgerController struct {
	logger providers.Logger
	store  interfaces.LedgerStoreInterface
	cache  providers.CacheProviderInterface
	loc    *time.Location
	now    func() time.Time
}

func NewLedgerController(logger providers.Logger, store interfaces.LedgerStoreInterface, cache providers.CacheProviderInterface, conf *structures.Config) *LedgerController {
	return &LedgerController{
		logger: logger,
		store:  store,
		cache:  cache,
		loc:    conf.Location,
		now:    time.Now,
	}
}

type ledgerResponse struct {
	Date  string              `json:"date"`
	Kind  models.LedgerKind   `json:"kind"`
	Count int                 `json:"count"`
	Games []models.GameRecord `json:"games"`
}

type activityResponse struct {
	RunDate string                  `json:"run_date"`
	Count   int                     `json:"count"`
	Minutes int64                   `json:"minutes"`
	Records []models.ActivityRecord `json:"records"`
}

var errBadRequest = errors.New("bad request")

// parseDate reads ?date=YYYYMMDD, defaulting to today in the reporting
// zone.
func (lc *LedgerController) parseDate(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return models.DayOf(lc.now(), lc.loc), nil
	}
	d, err := models.ParseDateKey(raw, lc.loc)
	if err != nil {
		return time.Time{}, errBadRequest
	}
	return d, nil
}

func parseKind(r *http.Request) (models.LedgerKind, error) {
	switch kind := models.LedgerKind(strings.ToLower(r.URL.Query().Get("kind"))); kind {
	case "":
		return models.KindOwned, nil
	case models.KindOwned, models.KindRecent:
		return kind, nil
	default:
		return "", errBadRequest
	}
}

// parseAppIDs reads a comma separated ?appid= filter.
func parseAppIDs(r *http.Request) (map[uint32]struct{}, error) {
	raw := r.URL.Query().Get("appid")
	if raw == "" {
		return nil, nil
	}
	ids := make(map[uint32]struct{})
	for _, part := range strings.Split(raw, ",") {
		id, err := cast.ToUint32E(strings.TrimSpace(part))
		if err != nil || id == 0 {
			return nil, errBadRequest
		}
		ids[id] = struct{}{}
	}
	return ids, nil
}

// serveFromCacheOrCompute caches only closed days; today's tables are
// rewritten by the next pass.
func (lc *LedgerController) serveFromCacheOrCompute(w http.ResponseWriter, date time.Time, cacheKey string, compute func() (any, error)) {
	cacheable := date.Before(models.DayOf(lc.now(), lc.loc))
	if cacheable {
		if data, ok := lc.cache.Get(cacheKey); ok {
			writeRaw(w, http.StatusOK, data)
			return
		}
	}

	result, err := compute()
	if errors.Is(err, models.ErrNotFound) {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	if err != nil {
		lc.logger.Errorf(providers.TypeHTTP, "Unable to read table %s: %s", cacheKey, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if cacheable {
		lc.cache.Set(cacheKey, gson)
	}
	writeRaw(w, http.StatusOK, gson)
}

func (lc *LedgerController) GetLedger(w http.ResponseWriter, r *http.Request) {
	kind, err := parseKind(r)
	if err != nil {
		http.Error(w, "Bad Request: kind must be owned or recent", http.StatusBadRequest)
		return
	}
	date, err := lc.parseDate(r)
	if err != nil {
		http.Error(w, "Bad Request: date must be YYYYMMDD", http.StatusBadRequest)
		return
	}
	filter, err := parseAppIDs(r)
	if err != nil {
		http.Error(w, "Bad Request: appid must be a list of positive integers", http.StatusBadRequest)
		return
	}

	cacheKey := "http:" + string(kind) + ":" + models.DateKey(date) + ":" + r.URL.Query().Get("appid")
	lc.serveFromCacheOrCompute(w, date, cacheKey, func() (any, error) {
		ledger, err := lc.store.ReadLedger(kind, date)
		if err != nil {
			return nil, err
		}
		games := ledger.Games
		if filter != nil {
			games = make([]models.GameRecord, 0, len(filter))
			for _, g := range ledger.Games {
				if _, ok := filter[g.AppID]; ok {
					games = append(games, g)
				}
			}
		}
		return ledgerResponse{Date: ledger.Date, Kind: ledger.Kind, Count: len(games), Games: games}, nil
	})
}

func (lc *LedgerController) GetActivity(w http.ResponseWriter, r *http.Request) {
	date, err := lc.parseDate(r)
	if err != nil {
		http.Error(w, "Bad Request: date must be YYYYMMDD", http.StatusBadRequest)
		return
	}

	lc.serveFromCacheOrCompute(w, date, "http:activity:"+models.DateKey(date), func() (any, error) {
		batch, err := lc.store.ReadActivity(date)
		if err != nil {
			return nil, err
		}
		var minutes int64
		for _, rec := range batch.Records {
			minutes += rec.ActivityMinutes
		}
		return activityResponse{RunDate: batch.RunDate, Count: len(batch.Records), Minutes: minutes, Records: batch.Records}, nil
	})
}
