package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/matzehuels/licensegate/pkg/checker"
	"github.com/matzehuels/licensegate/pkg/errors"
	"github.com/matzehuels/licensegate/pkg/report"
	"github.com/matzehuels/licensegate/pkg/source"
)

// maxUploadBytes caps dependency file uploads at 4 MiB.
const maxUploadBytes = 4 << 20

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.IsCallerInput(err):
		status = http.StatusBadRequest
	case errors.GetCode(err) == errors.ErrCodeRepoUnavailable:
		status = http.StatusBadGateway
	case errors.GetCode(err) == errors.ErrCodeTimeout:
		status = http.StatusGatewayTimeout
	case errors.GetCode(err) == errors.ErrCodeNotFound,
		errors.GetCode(err) == errors.ErrCodePolicyNotFound:
		status = http.StatusNotFound
	}
	if status >= 500 {
		s.logger.Error("request failed",
			"error", err,
			"request_id", RequestIDFrom(r.Context()),
		)
	}
	writeJSON(w, status, errorResponse{
		Error: errors.UserMessage(err),
		Code:  string(errors.GetCode(err)),
	})
}

// handleCheck accepts a multipart upload ("dependencyFile") or a form/JSON
// body with a "repo_url" field, runs the check, and returns the verdicts as
// a JSON array.
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	req, sourceName, err := s.parseCheckRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	records, err := s.checker.Check(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if s.reports != nil {
		rep := report.New(sourceName, req.Policy, records)
		if err := s.reports.Save(r.Context(), rep); err != nil {
			s.logger.Warn("saving report failed", "error", err)
		}
	}

	writeJSON(w, http.StatusOK, records)
}

func (s *Server) parseCheckRequest(r *http.Request) (checker.Request, string, error) {
	var req checker.Request

	ct := r.Header.Get("Content-Type")
	switch {
	case strings.HasPrefix(ct, "multipart/form-data"):
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return req, "", errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid multipart request")
		}
		req.Policy = r.FormValue("policy")
		req.RepoURL = r.FormValue("repo_url")

		file, header, err := r.FormFile("dependencyFile")
		if err == nil {
			defer file.Close()
			data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
			if err != nil {
				return req, "", errors.Wrap(errors.ErrCodeInvalidInput, err, "reading upload failed")
			}
			req.Upload = &source.Upload{Filename: header.Filename, Data: data}
			return req, header.Filename, nil
		}
		if req.RepoURL == "" {
			return req, "", errors.New(errors.ErrCodeNoInput, "no dependency file or repository URL provided")
		}
		return req, req.RepoURL, nil

	case strings.HasPrefix(ct, "application/json"):
		var body struct {
			RepoURL string `json:"repo_url"`
			Policy  string `json:"policy"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return req, "", errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid JSON body")
		}
		req.RepoURL = body.RepoURL
		req.Policy = body.Policy
		if req.RepoURL == "" {
			return req, "", errors.New(errors.ErrCodeNoInput, "no dependency file or repository URL provided")
		}
		return req, req.RepoURL, nil

	default:
		if err := r.ParseForm(); err != nil {
			return req, "", errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid form request")
		}
		req.Policy = r.FormValue("policy")
		req.RepoURL = r.FormValue("repo_url")
		if req.RepoURL == "" {
			return req, "", errors.New(errors.ErrCodeNoInput, "no dependency file or repository URL provided")
		}
		return req, req.RepoURL, nil
	}
}

func (s *Server) handlePolicies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"policies": s.policies.Names()})
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	if s.reports == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "report history is not enabled"))
		return
	}
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid limit %q", v))
			return
		}
		limit = n
	}
	reports, err := s.reports.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeStorage, err, "listing reports failed"))
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
