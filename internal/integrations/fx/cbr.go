package fx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/sirupsen/logrus"
)

const rub = "RUB"

// CBRClient derives cross rates from the Central Bank of Russia daily rate sheet
type CBRClient struct {
	url    string
	client *http.Client
	log    *logrus.Logger
}

// cbrSheet is one parsed daily sheet: RUB per unit of each currency
type cbrSheet struct {
	date  string
	rates map[string]float64
}

// NewCBRClient initializes a new CBR client
func NewCBRClient(url string, timeout time.Duration, log *logrus.Logger) *CBRClient {
	return &CBRClient{
		url: url,
		client: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// sendRequest downloads the daily sheet
func (c *CBRClient) sendRequest(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, unavailable("failed to create request: %v", err)
	}
	req.Header.Set("Accept", "application/xml")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, unavailable("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, unavailable("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, unavailable("failed to read response: %v", err)
	}

	c.log.Debugf("CBR XML response: %s", string(body))
	return body, nil
}

// parseXMLResponse reads every Valute entry of the sheet
func (c *CBRClient) parseXMLResponse(rawBody []byte) (*cbrSheet, error) {
	doc := etree.NewDocument()
	// The sheet is windows-1251; only ASCII fields are read, so bytes pass through.
	doc.ReadSettings.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}
	if err := doc.ReadFromBytes(rawBody); err != nil {
		return nil, unavailable("failed to parse XML: %v", err)
	}

	root := doc.SelectElement("ValCurs")
	if root == nil {
		return nil, unavailable("no ValCurs element in XML")
	}

	sheet := &cbrSheet{date: root.SelectAttrValue("Date", ""), rates: map[string]float64{rub: 1}}
	for _, v := range root.FindElements("./Valute") {
		code := v.FindElement("./CharCode")
		value := v.FindElement("./Value")
		if code == nil || value == nil {
			continue
		}
		nominal := 1.0
		if n := v.FindElement("./Nominal"); n != nil {
			if parsed, err := parseCBRNumber(n.Text()); err == nil && parsed > 0 {
				nominal = parsed
			}
		}
		price, err := parseCBRNumber(value.Text())
		if err != nil || price <= 0 {
			c.log.Warnf("Skipping CBR entry %s: bad value %q", code.Text(), value.Text())
			continue
		}
		sheet.rates[strings.ToUpper(strings.TrimSpace(code.Text()))] = price / nominal
	}

	if len(sheet.rates) == 1 {
		return nil, unavailable("no currency data found in XML")
	}
	return sheet, nil
}

func parseCBRNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.Replace(strings.TrimSpace(s), ",", ".", 1), 64)
}

// Rate retrieves the daily sheet and returns base→quote as a cross rate through RUB
func (c *CBRClient) Rate(ctx context.Context, base, quote string) (*Quote, error) {
	body, err := c.sendRequest(ctx)
	if err != nil {
		return nil, err
	}

	sheet, err := c.parseXMLResponse(body)
	if err != nil {
		return nil, err
	}

	baseRUB, ok := sheet.rates[base]
	if !ok {
		return nil, currencyNotFound(base)
	}
	quoteRUB, ok := sheet.rates[quote]
	if !ok {
		return nil, currencyNotFound(quote)
	}

	rate := baseRUB / quoteRUB
	c.log.Infof("Retrieved CBR cross rate %s/%s: %.4f (sheet %s)", base, quote, rate, sheet.date)
	return &Quote{
		Base:      base,
		Currency:  quote,
		Rate:      rate,
		UpdatedAt: sheet.date,
		Source:    fmt.Sprintf("cbr %s", sheet.date),
	}, nil
}
