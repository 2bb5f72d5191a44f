// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package api

import (
	"errors"
	"math"
	"net/http"

	"github.com/alvinbaena/pwd-analyzer/pkg/strength"
	"github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	"github.com/nbutton23/zxcvbn-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type analyzeApi struct {
	analyzer *strength.Analyzer
}

// analyze binds the request and runs the analyzer. On failure it writes the
// error status with errBody and returns nil.
func (a *analyzeApi) analyze(c *gin.Context, errBody func(msg string) any) *strength.Result {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, errBody("request body too large"))
			return nil
		}
		c.JSON(http.StatusBadRequest, errBody(err.Error()))
		return nil
	}

	res, err := a.analyzer.Analyze(req.Password)
	if err != nil {
		if errors.Is(err, strength.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, errBody(strength.ErrInvalidInput.Error()))
			return nil
		}

		log.Error().Err(err).Msg("error analyzing password")
		c.JSON(http.StatusInternalServerError, errBody("internal error"))
		return nil
	}

	return res
}

func (a *analyzeApi) analyzePassword(c *gin.Context) {
	res := a.analyze(c, func(msg string) any { return errorResponse{Error: msg} })
	if res == nil {
		return
	}

	c.JSON(http.StatusOK, analyzeResponse{Result: res, Reference: Reference(res.Password)})
}

// analyzePasswordLegacy answers in the {password, strength, score, features}
// shape of the unversioned endpoint, with is_leaked as 0 or 1 and errors
// under "detail".
func (a *analyzeApi) analyzePasswordLegacy(c *gin.Context) {
	res := a.analyze(c, func(msg string) any { return legacyErrorResponse{Detail: msg} })
	if res == nil {
		return
	}

	c.JSON(http.StatusOK, newLegacyResponse(res))
}

// zxcvbn matching grows much faster than linearly with the input.
const referenceMaxRunes = 100

// maxBodyBytes bounds analyze request bodies.
const maxBodyBytes = 64 << 10

// Reference runs zxcvbn over the first referenceMaxRunes runes of password.
func Reference(password string) ReferenceStrength {
	truncated := false
	if runes := []rune(password); len(runes) > referenceMaxRunes {
		password = string(runes[:referenceMaxRunes])
		truncated = true
	}

	ref := zxcvbn.PasswordStrength(password, nil)
	crackTime := ref.CrackTime
	// JSON has no infinity
	if math.IsInf(crackTime, 1) || math.IsNaN(crackTime) {
		crackTime = math.MaxFloat64
	}

	return ReferenceStrength{
		Score:            ref.Score,
		Entropy:          ref.Entropy,
		CrackTime:        crackTime,
		CrackTimeDisplay: ref.CrackTimeDisplay,
		Truncated:        truncated,
	}
}

func RegisterAnalyzeApi(group *gin.RouterGroup, analyzer *strength.Analyzer) {
	a := &analyzeApi{analyzer: analyzer}
	group.POST("/analyze", a.analyzePassword)
}

// NewRouter is the gin engine serving every API version, with panic recovery
// and zerolog request logging.
func NewRouter(analyzer *strength.Analyzer) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.SetLogger(logger.WithLogger(func(c *gin.Context, z zerolog.Logger) zerolog.Logger {
		return zerolog.New(gin.DefaultWriter).With().Timestamp().Logger()
	})))

	v1 := router.Group("/v1")
	RegisterAnalyzeApi(v1, analyzer)

	router.POST("/analyze-password", (&analyzeApi{analyzer: analyzer}).analyzePasswordLegacy)

	return router
}
