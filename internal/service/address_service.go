package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode"
)

// DefaultViaCEPURL is the public ViaCEP endpoint.
const DefaultViaCEPURL = "https://viacep.com.br"

var (
	ErrInvalidCEP   = errors.New("invalid CEP, expected 8 digits")
	ErrCEPNotFound  = errors.New("CEP not found")
	ErrLookupFailed = errors.New("lookup failed")
)

// Address is the result of a postal code lookup.
type Address struct {
	CEP          string
	Street       string
	Neighborhood string
	City         string
	State        string
}

// AddressService resolves Brazilian postal codes through ViaCEP.
type AddressService struct {
	baseURL string
	client  *http.Client
}

func NewAddressService(baseURL string, client *http.Client) *AddressService {
	if baseURL == "" {
		baseURL = DefaultViaCEPURL
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &AddressService{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

type viaCEPResponse struct {
	CEP        string          `json:"cep"`
	Logradouro string          `json:"logradouro"`
	Bairro     string          `json:"bairro"`
	Localidade string          `json:"localidade"`
	UF         string          `json:"uf"`
	Erro       json.RawMessage `json:"erro"`
}

// NormalizeCEP keeps the digits of raw and checks there are exactly 8.
func NormalizeCEP(raw string) (string, error) {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, raw)
	if len(digits) != 8 {
		return "", fmt.Errorf("%w: %q", ErrInvalidCEP, raw)
	}
	return digits, nil
}

// Lookup fetches the address for a CEP such as "01001-000".
func (s *AddressService) Lookup(ctx context.Context, raw string) (Address, error) {
	cep, err := NormalizeCEP(raw)
	if err != nil {
		return Address{}, err
	}

	url := fmt.Sprintf("%s/ws/%s/json/", s.baseURL, cep)
	var body viaCEPResponse
	if err := getJSON(ctx, s.client, url, &body); err != nil {
		return Address{}, err
	}

	// ViaCEP reports misses as "erro": true, or "erro": "true" in newer builds.
	if e := strings.Trim(string(body.Erro), `"`); e == "true" {
		return Address{}, fmt.Errorf("%w: %s", ErrCEPNotFound, cep)
	}

	addr := Address{
		CEP:          body.CEP,
		Street:       body.Logradouro,
		Neighborhood: body.Bairro,
		City:         body.Localidade,
		State:        body.UF,
	}
	if addr.CEP == "" {
		addr.CEP = cep[:5] + "-" + cep[5:]
	}
	if addr.Street == "" {
		addr.Street = "(sem logradouro)"
	}
	return addr, nil
}

func getJSON(ctx context.Context, client *http.Client, url string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: GET %s: %s", ErrLookupFailed, url, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrLookupFailed, url, err)
	}
	return nil
}
