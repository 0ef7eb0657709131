package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"todo-calendar/internal/calendar"
)

// DefaultBrasilAPIURL is the public BrasilAPI endpoint.
const DefaultBrasilAPIURL = "https://brasilapi.com.br"

// Holiday is a national holiday as reported by BrasilAPI.
type Holiday struct {
	Date calendar.Date
	Name string
	Type string
}

type holidayJSON struct {
	Date string `json:"date"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// HolidayService fetches holidays per year and caches successful results.
type HolidayService struct {
	baseURL string
	client  *http.Client

	mu    sync.Mutex
	years map[int][]Holiday
}

func NewHolidayService(baseURL string, client *http.Client) *HolidayService {
	if baseURL == "" {
		baseURL = DefaultBrasilAPIURL
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HolidayService{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		years:   make(map[int][]Holiday),
	}
}

// Holidays returns the holidays of year in date order.
func (s *HolidayService) Holidays(ctx context.Context, year int) ([]Holiday, error) {
	s.mu.Lock()
	cached, ok := s.years[year]
	s.mu.Unlock()
	if ok {
		return cached, nil
	}

	var raw []holidayJSON
	url := fmt.Sprintf("%s/api/feriados/v1/%d", s.baseURL, year)
	if err := getJSON(ctx, s.client, url, &raw); err != nil {
		return nil, err
	}

	holidays := make([]Holiday, 0, len(raw))
	for _, h := range raw {
		d, ok := calendar.Normalize(h.Date)
		if !ok {
			continue
		}
		holidays = append(holidays, Holiday{Date: d, Name: h.Name, Type: h.Type})
	}

	s.mu.Lock()
	s.years[year] = holidays
	s.mu.Unlock()
	return holidays, nil
}

// ForMonth returns the holiday names of year/month keyed by day.
func (s *HolidayService) ForMonth(ctx context.Context, year int, month time.Month) (map[calendar.Date]string, error) {
	holidays, err := s.Holidays(ctx, year)
	if err != nil {
		return nil, err
	}
	out := make(map[calendar.Date]string)
	for _, h := range holidays {
		if h.Date.InMonth(year, month) {
			out[h.Date] = h.Name
		}
	}
	return out, nil
}

// FindHoliday returns the holiday falling on day, if any.
func FindHoliday(holidays []Holiday, day calendar.Date) (Holiday, bool) {
	for _, h := range holidays {
		if h.Date == day {
			return h, true
		}
	}
	return Holiday{}, false
}
