package api

import (
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/emonxxx11/filegate/pkg/apiresponses"
	"github.com/emonxxx11/filegate/pkg/config"
	"github.com/emonxxx11/filegate/pkg/credentials"
	"github.com/emonxxx11/filegate/pkg/metrics"
	"github.com/emonxxx11/filegate/pkg/ratelimit"
	"github.com/emonxxx11/filegate/pkg/storage"
	"github.com/emonxxx11/filegate/pkg/token"
)

// allowedExtensions are the only file types accepted for upload.
var allowedExtensions = []string{".exe", ".zip", ".rar"}

// GatewayController wires the gateway actions: login, artifact download,
// file info, and the upload/list operations delegated to the blob store.
type GatewayController struct {
	log       *zap.SugaredLogger
	cfg       config.Config
	creds     *credentials.Store
	tokens    token.Service
	auth      *AuthHandler
	general   *ratelimit.IPRateLimiter
	downloads *ratelimit.WindowLimiter
	store     storage.BlobStore
	sealer    *storage.Sealer
}

// NewGatewayController builds the gateway route group. sealer may be nil,
// in which case uploads reach the blob store unencrypted.
func NewGatewayController(
	log *zap.SugaredLogger,
	cfg config.Config,
	creds *credentials.Store,
	tokens token.Service,
	auth *AuthHandler,
	general *ratelimit.IPRateLimiter,
	downloads *ratelimit.WindowLimiter,
	store storage.BlobStore,
	sealer *storage.Sealer,
) *GatewayController {
	return &GatewayController{
		log:       log,
		cfg:       cfg,
		creds:     creds,
		tokens:    tokens,
		auth:      auth,
		general:   general,
		downloads: downloads,
		store:     store,
		sealer:    sealer,
	}
}

func (g *GatewayController) BasePath() string {
	return ""
}

// Handlers applies the general per-IP limiter to every gateway route,
// including login.
func (g *GatewayController) Handlers() []gin.HandlerFunc {
	return []gin.HandlerFunc{g.general.Middleware()}
}

// Register wires the gateway routes. The chain for protected routes is
// always general limiter -> (download limiter) -> token verification ->
// handler.
func (g *GatewayController) Register(rg *gin.RouterGroup) error {
	rg.POST("auth/login", g.login)

	protected := rg.Group("", g.auth.Middleware())
	protected.GET("files/info", g.fileInfo)
	protected.GET("files/list", g.listFiles)
	protected.POST("files/upload", g.uploadFile)

	download := rg.Group("", g.downloads.Middleware(), g.auth.Middleware())
	download.GET("download/artifact", g.downloadArtifact)

	return nil
}

type loginRequest struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
}

type loginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn"`
	TokenType string `json:"tokenType"`
}

func (g *GatewayController) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ClientID == "" || req.ClientSecret == "" {
		metrics.Logins.WithLabelValues("invalid_request").Inc()
		apiresponses.RespondBadRequest(c, "client id and client secret are required")
		return
	}

	if !g.creds.Validate(req.ClientID, req.ClientSecret) {
		metrics.Logins.WithLabelValues("invalid_credentials").Inc()
		g.log.Infow("login rejected", "request_id", GetRequestID(c))
		apiresponses.RespondUnauthorized(c)
		return
	}

	tok, err := g.tokens.Issue(req.ClientID)
	if err != nil {
		metrics.Logins.WithLabelValues("error").Inc()
		apiresponses.RespondInternalError(c, "issue token", err, g.log)
		return
	}

	metrics.Logins.WithLabelValues("success").Inc()
	g.log.Infow("client logged in", "client", req.ClientID, "request_id", GetRequestID(c))
	apiresponses.RespondOK(c, loginResponse{
		Token:     tok,
		ExpiresIn: int(g.tokens.TTL().Seconds()),
		TokenType: "Bearer",
	})
}

func (g *GatewayController) downloadArtifact(c *gin.Context) {
	metrics.Downloads.Inc()
	g.log.Infow("serving artifact redirect", "client", GetClientID(c), "request_id", GetRequestID(c))
	c.Redirect(http.StatusFound, g.cfg.Artifact.URL)
}

type fileInfoResponse struct {
	URL       string `json:"url"`
	FileName  string `json:"fileName"`
	Source    string `json:"source"`
	Timestamp string `json:"timestamp"`
}

func (g *GatewayController) fileInfo(c *gin.Context) {
	apiresponses.RespondOK(c, fileInfoResponse{
		URL:       g.cfg.Artifact.URL,
		FileName:  g.cfg.Artifact.FileName,
		Source:    g.cfg.Artifact.Source,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

type uploadRequest struct {
	FileName string `json:"fileName"`
	FileData string `json:"fileData"`
}

type uploadResponse struct {
	FileName   string `json:"fileName"`
	FileSize   int    `json:"fileSize"`
	UploadedAt string `json:"uploadedAt"`
}

func hasAllowedExtension(fileName string) bool {
	lower := strings.ToLower(fileName)
	for _, ext := range allowedExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func (g *GatewayController) uploadFile(c *gin.Context) {
	var req uploadRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.FileName == "" || req.FileData == "" {
		metrics.Uploads.WithLabelValues("invalid_request").Inc()
		apiresponses.RespondBadRequest(c, "file name and data are required")
		return
	}

	if !hasAllowedExtension(req.FileName) {
		metrics.Uploads.WithLabelValues("invalid_request").Inc()
		apiresponses.RespondBadRequest(c, "only .exe, .zip, and .rar files are allowed")
		return
	}

	data, err := base64.StdEncoding.DecodeString(req.FileData)
	if err != nil {
		metrics.Uploads.WithLabelValues("invalid_request").Inc()
		apiresponses.RespondBadRequest(c, "file data must be base64 encoded")
		return
	}

	payload := data
	if g.sealer != nil {
		payload, err = g.sealer.Seal(data)
		if err != nil {
			metrics.Uploads.WithLabelValues("error").Inc()
			apiresponses.RespondInternalError(c, "encrypt file", err, g.log)
			return
		}
	}

	g.log.Infow("uploading file", "client", GetClientID(c), "file", req.FileName, "size", len(data))
	if err := g.store.Save(c.Request.Context(), req.FileName, payload); err != nil {
		metrics.Uploads.WithLabelValues("upstream_error").Inc()
		apiresponses.RespondInternalError(c, "upload file", err, g.log)
		return
	}

	metrics.Uploads.WithLabelValues("success").Inc()
	apiresponses.RespondOK(c, uploadResponse{
		FileName:   req.FileName,
		FileSize:   len(data),
		UploadedAt: time.Now().UTC().Format(time.RFC3339),
	})
}

type fileEntry struct {
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	Created time.Time `json:"created"`
	Updated time.Time `json:"updated"`
}

type listFilesResponse struct {
	Files []fileEntry `json:"files"`
}

func (g *GatewayController) listFiles(c *gin.Context) {
	g.log.Infow("listing files", "client", GetClientID(c))
	objects, err := g.store.List(c.Request.Context())
	if err != nil {
		apiresponses.RespondInternalError(c, "list files", err, g.log)
		return
	}

	files := make([]fileEntry, 0, len(objects))
	for _, o := range objects {
		files = append(files, fileEntry{
			Name:    o.Name,
			Size:    o.Size,
			Created: o.CreatedAt,
			Updated: o.UpdatedAt,
		})
	}
	apiresponses.RespondOK(c, listFilesResponse{Files: files})
}
