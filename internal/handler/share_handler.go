package handler

import (
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/folio/internal/i18n"
	"github.com/xxxsen/folio/internal/model"
	"github.com/xxxsen/folio/internal/pkg/errcode"
	appErr "github.com/xxxsen/folio/internal/pkg/errors"
	"github.com/xxxsen/folio/internal/pkg/response"
	"github.com/xxxsen/folio/internal/service"
)

type ShareHandler struct {
	links   *service.ShareLinkService
	limiter *RedeemLimiter
	siteURL string
}

func NewShareHandler(links *service.ShareLinkService, limiter *RedeemLimiter, siteURL string) *ShareHandler {
	return &ShareHandler{links: links, limiter: limiter, siteURL: siteURL}
}

type createShareRequest struct {
	TargetURL  string `json:"target_url"`
	ExpiryDays int    `json:"expiry_days"`
	SecretCode string `json:"secret_code"`
}

type redeemRequest struct {
	Code string `json:"code" form:"code"`
}

type shareLinkResponse struct {
	ID        string     `json:"id"`
	URL       string     `json:"url"`
	TargetURL string     `json:"target_url"`
	ExpiresAt *time.Time `json:"expires_at"`
	Protected bool       `json:"protected"`
	CreatedAt time.Time  `json:"created_at"`
}

type redeemResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	TargetURL string `json:"target_url,omitempty"`
	ViewerURL string `json:"viewer_url,omitempty"`
}

var redeemMessages = map[service.RedeemStatus]string{
	service.RedeemOK:             i18n.MsgShareOK,
	service.RedeemNotFound:       i18n.MsgShareNotFound,
	service.RedeemExpired:        i18n.MsgShareExpired,
	service.RedeemSecretRequired: i18n.MsgShareSecretRequired,
	service.RedeemSecretMismatch: i18n.MsgShareSecretMismatch,
}

func (h *ShareHandler) Create(c *gin.Context) {
	var req createShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, appErr.ErrInvalid)
		return
	}
	link, err := h.links.Create(c.Request.Context(), req.TargetURL, service.ShareLinkOptions{
		ExpiryDays: req.ExpiryDays,
		SecretCode: req.SecretCode,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, h.toResponse(link))
}

func (h *ShareHandler) List(c *gin.Context) {
	items, err := h.links.ListByTarget(c.Request.Context(), c.Query("target_url"))
	if err != nil {
		handleError(c, err)
		return
	}
	out := make([]shareLinkResponse, 0, len(items))
	for i := range items {
		out = append(out, h.toResponse(&items[i]))
	}
	response.Success(c, out)
}

func (h *ShareHandler) Delete(c *gin.Context) {
	if err := h.links.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"success": true})
}

// Redeem reports the outcome of presenting a share id, with an optional
// secret code in the body of a POST.
func (h *ShareHandler) Redeem(c *gin.Context) {
	id := c.Param("id")
	lang := i18n.Match(c.GetHeader("Accept-Language"))
	code := ""
	if c.Request.Method == http.MethodPost {
		var req redeemRequest
		if err := c.ShouldBind(&req); err != nil {
			handleError(c, appErr.ErrInvalid)
			return
		}
		code = req.Code
	}

	ctx := c.Request.Context()
	key := c.ClientIP() + "|" + id
	if code != "" && !h.limiter.admit(ctx, key) {
		logutil.GetLogger(ctx).Warn("share redeem throttled", zap.String("ip", c.ClientIP()), zap.String("id", id))
		response.Error(c, errcode.ErrTooMany, i18n.Text(lang, i18n.MsgShareTooMany))
		return
	}
	res := h.links.Validate(ctx, id, code)
	if res.Status == service.RedeemSecretMismatch {
		logutil.GetLogger(ctx).Info("share secret mismatch", zap.String("ip", c.ClientIP()), zap.String("id", id))
	}
	if res.OK() && code != "" {
		h.limiter.reset(ctx, key)
	}
	out := redeemResponse{
		Status:  res.Status.String(),
		Message: i18n.Text(lang, redeemMessages[res.Status]),
	}
	if res.OK() {
		out.TargetURL = res.TargetURL
		out.ViewerURL = h.viewerURL(res.TargetURL)
	}
	response.Success(c, out)
}

// Open redirects straight to the viewer for links that need no secret and
// back to the share page otherwise.
func (h *ShareHandler) Open(c *gin.Context) {
	id := c.Param("id")
	res := h.links.Validate(c.Request.Context(), id, "")
	if res.OK() {
		c.Redirect(http.StatusFound, h.viewerURL(res.TargetURL))
		return
	}
	c.Redirect(http.StatusFound, h.siteURL+"/shared/"+url.PathEscape(id))
}

func (h *ShareHandler) viewerURL(target string) string {
	return h.siteURL + "/pdf?url=" + url.QueryEscape(target)
}

func (h *ShareHandler) toResponse(link *model.ShareLink) shareLinkResponse {
	return shareLinkResponse{
		ID:        link.ID,
		URL:       h.siteURL + "/shared/" + link.ID,
		TargetURL: link.TargetURL,
		ExpiresAt: link.ExpiresAt,
		Protected: link.Protected(),
		CreatedAt: link.CreatedAt,
	}
}
