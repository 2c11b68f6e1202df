package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"solana-fee-advisor/internal/domain"
	"solana-fee-advisor/internal/observability"
)

// handleNetworkStatus serves a freshly sampled congestion report.
func (s *Server) handleNetworkStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.sample())
}

// handleHistoricalData serves a synthetic congestion series. A missing
// timeframe defaults to week; any value, including empty, is echoed back.
func (s *Server) handleHistoricalData(c *gin.Context) {
	timeframe := c.DefaultQuery("timeframe", domain.DefaultTimeframe)
	series := s.generator.Generate(timeframe)

	if len(series.Data) > 0 {
		observability.RecordHistoricalSeries(string(series.Data[0].Kind))
	}
	c.JSON(http.StatusOK, series)
}

// feeRecommendationRequest is the body of POST /api/priority-fee-recommendation.
type feeRecommendationRequest struct {
	TransactionType string      `json:"transactionType"`
	Priority        string      `json:"priority"`
	PriorityFee     looseString `json:"priorityFee"`
}

// handlePriorityFee quotes a fee for the requested transaction.
func (s *Server) handlePriorityFee(c *gin.Context) {
	var req feeRecommendationRequest
	if err := decodeOptionalJSON(c.Request.Body, &req); err != nil {
		errorJSON(c, http.StatusInternalServerError, err.Error())
		return
	}

	feeReq := domain.FeeRequest{
		TransactionType: req.TransactionType,
		Priority:        req.Priority,
		PriorityFee:     req.PriorityFee.or(domain.DefaultPriorityFeeOverride),
	}
	if feeReq.TransactionType == "" {
		feeReq.TransactionType = domain.TxTypeTokenTransfer
	}
	if feeReq.Priority == "" {
		feeReq.Priority = domain.PriorityStandard
	}

	quote := s.calculator.Quote(feeReq)
	observability.RecordFeeQuote(metricLabel(feeReq.TransactionType, knownTxTypes), metricLabel(feeReq.Priority, knownPriorities), quote.Overridden)

	c.JSON(http.StatusOK, quote)
}

var (
	knownTxTypes = []string{
		domain.TxTypeTokenTransfer, domain.TxTypeNFTPurchase, domain.TxTypeSwap, domain.TxTypeSmartContract,
	}
	knownPriorities = []string{
		domain.PriorityStandard, domain.PriorityFast, domain.PriorityUrgent,
	}
)

// metricLabel bounds label cardinality to the known values.
func metricLabel(v string, known []string) string {
	for _, k := range known {
		if v == k {
			return v
		}
	}
	return "other"
}
