package state

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/garyjia/lic-claimdesk/internal/application/port"
	"github.com/garyjia/lic-claimdesk/internal/domain/claimdate"
	"github.com/garyjia/lic-claimdesk/internal/domain/entity"
)

// reconciler folds legacy per-record entries into the aggregate state
type reconciler struct {
	logger   port.Logger
	migrated []recordKey
	skipped  int
}

// field name variants seen in older per-record entries
var (
	policyKeys   = []string{"policyNo", "policy_no", "policyNumber", "policy"}
	nameKeys     = []string{"name", "claimantName", "claimant_name", "claimant"}
	typeKeys     = []string{"claimType", "claim_type", "type"}
	commKeys     = []string{"commencementDate", "commencement_date", "doc"}
	deathKeys    = []string{"deathDate", "death_date", "dod"}
	workflowKeys = []string{"workflow", "workflowState", "workflow_state"}
	issueKeys    = []string{"issue", "description", "remarks"}
)

func (r *reconciler) claims(st *AppState, records []*port.Record) {
	for _, rec := range records {
		fields, ok := r.decode(rec)
		if !ok {
			continue
		}

		policyNo := pick(fields, policyKeys)
		if policyNo == "" {
			policyNo = policyFromKey(rec.Key)
		}
		if policyNo == "" {
			r.skip(rec, "no recoverable policy number")
			continue
		}

		if _, exists := st.Claims[policyNo]; exists {
			r.migrated = append(r.migrated, recordKey{rec.Partition, rec.Key})
			r.logger.Info("Legacy claim superseded by active entry", "policy_no", policyNo, "key", rec.Key)
			continue
		}

		claim := &entity.Claim{
			PolicyNo:         policyNo,
			ClaimantName:     pick(fields, nameKeys),
			CommencementDate: pick(fields, commKeys),
			DeathDate:        pick(fields, deathKeys),
			Query:            pick(fields, []string{"query"}),
			CreatedAt:        rec.UpdatedAt,
			UpdatedAt:        rec.UpdatedAt,
		}
		if ct, ok := entity.ParseClaimType(pick(fields, typeKeys)); ok {
			claim.ClaimType = ct
		} else if a, err := claimdate.Assess(claim.CommencementDate, claim.DeathDate, time.Now()); err == nil {
			claim.ClaimType = a.Suggested
		} else {
			// without a type the claim has no workflow path
			r.skip(rec, "no recoverable claim type")
			continue
		}
		for _, k := range workflowKeys {
			if wf, ok := fields[k].(map[string]interface{}); ok {
				claim.Workflow = entity.WorkflowState(wf)
				break
			}
		}

		st.Claims[policyNo] = claim
		r.migrated = append(r.migrated, recordKey{rec.Partition, rec.Key})
		r.logger.Info("Legacy claim migrated", "policy_no", policyNo, "key", rec.Key)
	}
}

// attachWorkflows joins workflow states onto their claims. States whose
// claim is gone are dropped; a legacy claim's embedded state loses to the
// sentinel blob.
func (r *reconciler) attachWorkflows(st *AppState, workflows map[string]entity.WorkflowState) {
	for policyNo, wf := range workflows {
		claim, ok := st.Claims[policyNo]
		if !ok {
			r.logger.Warn("Dropping workflow state without a claim", "policy_no", policyNo)
			continue
		}
		claim.Workflow = wf
	}
	for _, claim := range st.Claims {
		if claim.Workflow == nil {
			claim.Workflow = entity.WorkflowState{}
		}
	}
}

func (r *reconciler) specialCases(st *AppState, records []*port.Record) {
	for _, rec := range records {
		fields, ok := r.decode(rec)
		if !ok {
			continue
		}

		policyNo := pick(fields, policyKeys)
		if policyNo == "" {
			policyNo = policyFromKey(rec.Key)
		}
		if policyNo == "" {
			r.skip(rec, "no recoverable policy number")
			continue
		}

		r.migrated = append(r.migrated, recordKey{rec.Partition, rec.Key})
		if _, exists := st.SpecialCases[policyNo]; exists {
			continue
		}

		st.SpecialCases[policyNo] = &entity.SpecialCase{
			PolicyNo:  policyNo,
			Name:      pick(fields, nameKeys),
			Type:      pick(fields, []string{"type", "caseType", "case_type"}),
			Issue:     pick(fields, issueKeys),
			UpdatedAt: rec.UpdatedAt,
		}
		r.logger.Info("Legacy special case migrated", "policy_no", policyNo, "key", rec.Key)
	}
}

func (r *reconciler) decode(rec *port.Record) (map[string]interface{}, bool) {
	var fields map[string]interface{}
	if err := json.Unmarshal(rec.Value, &fields); err != nil {
		r.skip(rec, "undecodable value")
		return nil, false
	}
	return fields, true
}

// skip logs a record that could not be migrated. The record stays in the
// store untouched.
func (r *reconciler) skip(rec *port.Record, reason string) {
	r.skipped++
	r.logger.Warn("Skipping legacy record",
		"partition", rec.Partition,
		"key", rec.Key,
		"reason", reason,
	)
}

func pick(fields map[string]interface{}, keys []string) string {
	for _, k := range keys {
		switch v := fields[k].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

// policyFromKey accepts keys that are a bare policy number
func policyFromKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	for _, r := range key {
		if !unicode.IsDigit(r) {
			return ""
		}
	}
	return key
}

// dropNil removes null entries a hand-edited or truncated blob can carry
func (r *reconciler) dropNil(st *AppState) {
	for policyNo, c := range st.Claims {
		if c == nil {
			r.logger.Warn("Dropping empty active claim entry", "policy_no", policyNo)
			delete(st.Claims, policyNo)
		}
	}
	for policyNo, sc := range st.SpecialCases {
		if sc == nil {
			r.logger.Warn("Dropping empty special case entry", "policy_no", policyNo)
			delete(st.SpecialCases, policyNo)
		}
	}

	completed := st.CompletedClaims[:0]
	for _, c := range st.CompletedClaims {
		if c != nil {
			completed = append(completed, c)
		}
	}
	if dropped := len(st.CompletedClaims) - len(completed); dropped > 0 {
		r.logger.Warn("Dropping empty completed claim entries", "count", dropped)
	}
	st.CompletedClaims = completed

	resolved := st.CompletedSpecialCases[:0]
	for _, c := range st.CompletedSpecialCases {
		if c != nil {
			resolved = append(resolved, c)
		}
	}
	if dropped := len(st.CompletedSpecialCases) - len(resolved); dropped > 0 {
		r.logger.Warn("Dropping empty resolved special case entries", "count", dropped)
	}
	st.CompletedSpecialCases = resolved

	book := st.FollowUps
	for policyNo, rec := range book.Records {
		if rec == nil {
			r.logger.Warn("Dropping empty follow-up entry", "policy_no", policyNo)
			delete(book.Records, policyNo)
		}
	}
	order := book.Order[:0]
	for _, policyNo := range book.Order {
		if _, ok := book.Records[policyNo]; ok {
			order = append(order, policyNo)
		}
	}
	book.Order = order
}
