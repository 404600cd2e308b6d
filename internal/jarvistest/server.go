// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package jarvistest runs an in-memory Jarvis API server for tests.
//
// The fake follows the real server's contract: the /api prefix, bearer JWT
// auth, {"detail": ...} errors and the meeting-flow state rules. OpenAI and
// SMTP are simulated by flags so tests can drive ready and limited modes.
package jarvistest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
)

// SigningKey signs the tokens the fake server issues.
var SigningKey = []byte("jarvistest-signing-key")

// TokenTTL matches the real server's 30 minute access tokens.
const TokenTTL = 30 * time.Minute

type user struct {
	ID       int
	Name     string
	Email    string
	Password string
	Question string
	Answer   string
	Config   map[string]interface{}
}

type attendee struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type flow struct {
	ID        int
	State     string
	MeetingID int
	With      []attendee
	Missing   []string
	Notes     []string
}

// Meeting is a meeting stored by the fake server.
type Meeting struct {
	ID        int     `json:"id"`
	UserID    int     `json:"-"`
	Title     string  `json:"title"`
	Attendees string  `json:"attendees"`
	Notes     string  `json:"notes"`
	MoM       *string `json:"mom"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"created_at"`
	EndedAt   *string `json:"ended_at"`
}

type task struct {
	ID            int     `json:"id"`
	UserID        int     `json:"-"`
	Title         string  `json:"title"`
	Description   *string `json:"description"`
	Assignee      *string `json:"assignee"`
	AssigneeEmail *string `json:"assignee_email"`
	Priority      string  `json:"priority"`
	Status        string  `json:"status"`
	CreatedAt     string  `json:"created_at"`
	DueDate       *string `json:"due_date"`
	LastFollowup  *string `json:"last_followup"`
}

type todo struct {
	ID          int     `json:"id"`
	UserID      int     `json:"-"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
	CompletedAt *string `json:"completed_at"`
}

// Email is an email the fake server "sent".
type Email struct {
	ID        int    `json:"id"`
	UserID    int    `json:"-"`
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	SentAt    string `json:"sent_at"`
	EmailType string `json:"email_type"`
}

type failure struct {
	status int
	detail string
}

// Server is a fake Jarvis backend.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	nextID   int
	users    map[int]*user
	revoked  map[string]bool
	contacts map[int][]attendee
	flows    map[int]*flow
	meetings []*Meeting
	tasks    []*task
	todos    []*todo
	emails   []*Email
	fail     map[string]failure
	calls    map[string]int

	openAI    bool
	smtp      bool
	failing   map[string]bool
	chatReply func(message, chatContext string) string
}

// New starts a fake server that is closed when t finishes.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		users:    map[int]*user{},
		revoked:  map[string]bool{},
		contacts: map[int][]attendee{},
		flows:    map[int]*flow{},
		fail:     map[string]failure{},
		calls:    map[string]int{},
		failing:  map[string]bool{},
	}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

// APIURL returns the API root including the /api prefix.
func (s *Server) APIURL() string {
	return s.URL + "/api"
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(s.record)

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", s.register)
		r.Post("/login", s.login)
		r.Post("/forgot-password/verify", s.forgotVerify)
		r.Post("/forgot-password/reset", s.forgotReset)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)
			r.Get("/me", s.me)
			r.Get("/config", s.getConfig)
			r.Post("/config", s.postConfig)
			r.Get("/system/status", s.systemStatus)
			r.Get("/dashboard", s.dashboard)
			r.Post("/chat", s.chat)

			r.Post("/meetings/start", s.meetingStart)
			r.Get("/meetings", s.meetingList)
			r.Post("/meetings/{id}/notes", s.meetingNote)
			r.Post("/meetings/{id}/end", s.meetingEnd)

			r.Post("/meetings/flow/start", s.flowStart)
			r.Post("/meetings/flow/add-email", s.flowAddEmail)
			r.Post("/meetings/flow/add-note", s.flowAddNote)
			r.Post("/meetings/flow/end", s.flowEnd)
			r.Post("/meetings/flow/confirm-summary", s.flowConfirm)
			r.Post("/meetings/flow/send-emails", s.flowSendEmails)
			r.Get("/meetings/flow/status", s.flowStatus)

			r.Post("/contacts", s.contactCreate)
			r.Get("/contacts", s.contactList)
			r.Post("/tasks", s.taskCreate)
			r.Get("/tasks", s.taskList)
			r.Put("/tasks/{id}/complete", s.taskComplete)
			r.Post("/todos", s.todoCreate)
			r.Get("/todos", s.todoList)
			r.Put("/todos/{id}/complete", s.todoComplete)
			r.Post("/emails/send", s.emailSend)
			r.Post("/emails/draft", s.emailDraft)
			r.Get("/emails", s.emailList)
		})
	})
	return r
}

// =============================================================================
// TEST CONTROLS
// =============================================================================

// SetOpenAI simulates a working or broken OpenAI integration.
func (s *Server) SetOpenAI(ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.openAI = ok
}

// SetSMTP simulates a working or broken SMTP integration.
func (s *Server) SetSMTP(ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.smtp = ok
}

// FailRecipient makes delivery to email fail.
func (s *Server) FailRecipient(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing[email] = true
}

// SetChatReply overrides the assistant's answer text.
func (s *Server) SetChatReply(fn func(message, chatContext string) string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chatReply = fn
}

// AddUser registers an account and returns its id.
func (s *Server) AddUser(name, email, password string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(name, email, password, "", "")
}

func (s *Server) addUserLocked(name, email, password, question, answer string) int {
	s.nextID++
	s.users[s.nextID] = &user{ID: s.nextID, Name: name, Email: email, Password: password, Question: question, Answer: answer}
	return s.nextID
}

// SetSecurityQuestion stores a recovery question for the account.
func (s *Server) SetSecurityQuestion(userID int, question, answer string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[userID].Question = question
	s.users[userID].Answer = answer
}

// Token issues a token for userID that expires after ttl.
func (s *Server) Token(userID int, ttl time.Duration) string {
	claims := jwt.RegisteredClaims{
		Subject:   strconv.Itoa(userID),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(SigningKey)
	if err != nil {
		panic(err)
	}
	return signed
}

// Revoke makes the server reject token with 401.
func (s *Server) Revoke(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[token] = true
}

// AddContact stores a contact for userID.
func (s *Server) AddContact(userID int, name, email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upsertContactLocked(userID, name, email)
}

// FailNext makes the next request to "METHOD /api/path" fail with status
// and a {"detail": detail} body.
func (s *Server) FailNext(method, path string, status int, detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[method+" "+path] = failure{status, detail}
}

// Calls returns how many times "METHOD /api/path" was requested.
func (s *Server) Calls(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method+" "+path]
}

// FlowState returns the server-side flow state for userID, or "none".
func (s *Server) FlowState(userID int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f := s.flows[userID]; f != nil {
		return f.State
	}
	return "none"
}

// Meetings returns the stored meetings of userID.
func (s *Server) Meetings(userID int) []Meeting {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Meeting
	for _, m := range s.meetings {
		if m.UserID == userID {
			out = append(out, *m)
		}
	}
	return out
}

// SentEmails returns every email sent for userID.
func (s *Server) SentEmails(userID int) []Email {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Email
	for _, e := range s.emails {
		if e.UserID == userID {
			out = append(out, *e)
		}
	}
	return out
}

// StoredConfig returns the raw config saved for userID.
func (s *Server) StoredConfig(userID int) map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[string]interface{}{}
	for k, v := range s.users[userID].Config {
		out[k] = v
	}
	return out
}

// =============================================================================
// MIDDLEWARE AND HELPERS
// =============================================================================

type ctxKey struct{}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		s.mu.Lock()
		s.calls[key]++
		f, injected := s.fail[key]
		delete(s.fail, key)
		s.mu.Unlock()
		if injected {
			writeDetail(w, f.status, f.detail)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			writeDetail(w, http.StatusForbidden, "Not authenticated")
			return
		}
		var claims jwt.RegisteredClaims
		_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return SigningKey, nil
		})
		if err != nil {
			writeDetail(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		id, _ := strconv.Atoi(claims.Subject)
		s.mu.Lock()
		_, exists := s.users[id]
		revoked := s.revoked[raw]
		s.mu.Unlock()
		if !exists || revoked {
			writeDetail(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

func userID(r *http.Request) int {
	id, _ := r.Context().Value(ctxKey{}).(int)
	return id
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"detail": []map[string]interface{}{{"loc": []string{"body"}, "msg": err.Error(), "type": "value_error"}},
		})
		return false
	}
	return true
}

func pathID(r *http.Request) int {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	return id
}

func now() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000000")
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (s *Server) upsertContactLocked(uid int, name, email string) {
	list := s.contacts[uid]
	for i := range list {
		if strings.EqualFold(list[i].Email, email) {
			list[i].Name = name
			return
		}
	}
	s.contacts[uid] = append(list, attendee{Name: name, Email: email})
}

func (s *Server) contactByNameLocked(uid int, name string) (attendee, bool) {
	for _, c := range s.contacts[uid] {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return attendee{}, false
}

func (s *Server) sendLocked(uid int, recipient, subject, body, kind string) bool {
	if !s.smtp || s.failing[recipient] {
		return false
	}
	s.nextID++
	s.emails = append(s.emails, &Email{ID: s.nextID, UserID: uid, Recipient: recipient, Subject: subject, Body: body, SentAt: now(), EmailType: kind})
	return true
}

func generateMoM(title, attendees, notes string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Minutes of Meeting: %s\n\n", title)
	fmt.Fprintf(&b, "**Attendees:** %s\n\n## Discussion\n", attendees)
	for _, n := range strings.Split(notes, "\n") {
		if n = strings.TrimSpace(n); n != "" {
			fmt.Fprintf(&b, "- %s\n", n)
		}
	}
	return b.String()
}

// =============================================================================
// AUTH HANDLERS
// =============================================================================

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name             string `json:"name"`
		Email            string `json:"email"`
		Password         string `json:"password"`
		SecurityQuestion string `json:"security_question"`
		SecurityAnswer   string `json:"security_answer"`
	}
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, req.Email) {
			writeDetail(w, http.StatusBadRequest, "Email already registered")
			return
		}
	}
	id := s.addUserLocked(req.Name, req.Email, req.Password, req.SecurityQuestion, req.SecurityAnswer)
	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "User registered successfully", "user_id": id})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	var found *user
	for _, u := range s.users {
		if strings.EqualFold(u.Email, req.Email) && u.Password == req.Password {
			found = u
		}
	}
	s.mu.Unlock()
	if found == nil {
		writeDetail(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"access_token": s.Token(found.ID, TokenTTL),
		"token_type":   "bearer",
		"user":         map[string]interface{}{"id": found.ID, "name": found.Name, "email": found.Email},
	})
}

func (s *Server) findByEmailLocked(email string) *user {
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u
		}
	}
	return nil
}

func (s *Server) forgotVerify(w http.ResponseWriter, r *http.Request) {
	var req map[string]string
	if !decode(w, r, &req) {
		return
	}
	if req["email"] == "" {
		writeDetail(w, http.StatusBadRequest, "Email is required")
		return
	}
	s.mu.Lock()
	u := s.findByEmailLocked(req["email"])
	s.mu.Unlock()
	if u == nil || u.Question == "" {
		writeDetail(w, http.StatusNotFound, "User not found or no security question set")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"security_question": u.Question})
}

func (s *Server) forgotReset(w http.ResponseWriter, r *http.Request) {
	var req map[string]string
	if !decode(w, r, &req) {
		return
	}
	if req["email"] == "" || req["security_answer"] == "" || req["new_password"] == "" {
		writeDetail(w, http.StatusBadRequest, "All fields are required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.findByEmailLocked(req["email"])
	if u == nil || u.Answer != req["security_answer"] {
		writeDetail(w, http.StatusUnauthorized, "Invalid security answer")
		return
	}
	u.Password = req["new_password"]
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password reset successfully"})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	u := s.users[userID(r)]
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]interface{}{"id": u.ID, "name": u.Name, "email": u.Email})
}

// =============================================================================
// SYSTEM HANDLERS
// =============================================================================

func (s *Server) getConfig(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	cfg := s.users[userID(r)].Config
	s.mu.Unlock()
	mask := func(k string) interface{} {
		if v, ok := cfg[k].(string); ok && v != "" {
			return "***"
		}
		return nil
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"openai_key": mask("openai_key"),
		"smtp_host":  cfg["smtp_host"],
		"smtp_port":  cfg["smtp_port"],
		"smtp_user":  cfg["smtp_user"],
		"smtp_pass":  mask("smtp_pass"),
	})
}

func (s *Server) postConfig(w http.ResponseWriter, r *http.Request) {
	var req map[string]interface{}
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	s.users[userID(r)].Config = req
	openai := s.openAI && req["openai_key"] != nil && req["openai_key"] != ""
	smtp := s.smtp && req["smtp_host"] != nil && req["smtp_user"] != nil && req["smtp_pass"] != nil
	s.mu.Unlock()

	var msg strings.Builder
	msg.WriteString("Configuration saved successfully!\n\n")
	var openaiErr, smtpErr interface{}
	if openai {
		msg.WriteString("✅ OpenAI API: Connected successfully\n")
	} else {
		openaiErr = "invalid api key"
		msg.WriteString("❌ OpenAI API: Connection failed - invalid api key\n")
	}
	if smtp {
		msg.WriteString("✅ SMTP: Connected successfully\n")
	} else {
		smtpErr = "authentication failed"
		msg.WriteString("⚠️ SMTP: Configuration incomplete\n")
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":          msg.String(),
		"openai_connected": openai,
		"smtp_connected":   smtp,
		"openai_error":     openaiErr,
		"smtp_error":       smtpErr,
	})
}

func mark(ok bool) string {
	if ok {
		return "✅"
	}
	return "❌"
}

func (s *Server) systemStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	openai, smtp := s.openAI, s.smtp
	s.mu.Unlock()
	msg := "> Initializing Jarvis AI...\n" +
		"> Checking GPT API Key: " + mark(openai) + "\n" +
		"> Verifying SMTP Connection: " + mark(smtp) + "\n" +
		"> Connecting to SQLite DB: ✅\n"
	switch {
	case openai && smtp:
		msg += "> All systems online. Ready to assist."
	case openai:
		msg += "> AI ready. Email configuration needed."
	case smtp:
		msg += "> Email ready. AI configuration needed."
	default:
		msg += "> Configuration required. Please update settings."
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"openai_connected":   openai,
		"smtp_connected":     smtp,
		"database_connected": true,
		"message":            msg,
	})
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	meetings := []*Meeting{}
	for i := len(s.meetings) - 1; i >= 0 && len(meetings) < 5; i-- {
		if s.meetings[i].UserID == uid {
			meetings = append(meetings, s.meetings[i])
		}
	}
	tasks := []*task{}
	for i := len(s.tasks) - 1; i >= 0; i-- {
		if t := s.tasks[i]; t.UserID == uid && t.Status != "completed" {
			tasks = append(tasks, t)
		}
	}
	todos := []*todo{}
	for i := len(s.todos) - 1; i >= 0; i-- {
		if t := s.todos[i]; t.UserID == uid && t.Status != "completed" {
			todos = append(todos, t)
		}
	}
	emails := []*Email{}
	for i := len(s.emails) - 1; i >= 0 && len(emails) < 5; i-- {
		if s.emails[i].UserID == uid {
			emails = append(emails, s.emails[i])
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"recent_meetings": meetings,
		"active_tasks":    tasks,
		"pending_todos":   todos,
		"recent_emails":   emails,
	})
}

func (s *Server) chat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
		Context string `json:"context"`
	}
	if !decode(w, r, &req) {
		return
	}
	reply := "I am Jarvis. You said: " + req.Message
	s.mu.Lock()
	fn := s.chatReply
	s.mu.Unlock()
	if fn != nil {
		reply = fn(req.Message, req.Context)
	}
	var command, action interface{}
	lower := strings.ToLower(req.Message)
	for _, c := range []struct{ phrase, cmd, action string }{
		{"start meeting", "start_meeting", "collect_meeting_details"},
		{"end meeting", "end_meeting", "generate_mom"},
		{"create task", "create_task", "collect_task_details"},
		{"create todo", "create_todo", "collect_todo_details"},
		{"send email", "send_email", "collect_email_details"},
		{"system check", "system_check", "run_system_check"},
	} {
		if strings.Contains(lower, c.phrase) {
			command, action = c.cmd, c.action
			break
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"response":         reply,
		"command_detected": command,
		"action_required":  action,
	})
}

// =============================================================================
// QUICK MEETING HANDLERS
// =============================================================================

func (s *Server) meetingStart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title     string `json:"title"`
		Attendees string `json:"attendees"`
	}
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.meetings = append(s.meetings, &Meeting{ID: s.nextID, UserID: userID(r), Title: req.Title, Attendees: req.Attendees, Status: "active", CreatedAt: now()})
	writeJSON(w, http.StatusOK, map[string]interface{}{"meeting_id": s.nextID, "message": "Meeting started successfully"})
}

func (s *Server) meetingByIDLocked(uid, id int) *Meeting {
	for _, m := range s.meetings {
		if m.ID == id && m.UserID == uid {
			return m
		}
	}
	return nil
}

func (s *Server) meetingNote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Note string `json:"note"`
	}
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.meetingByIDLocked(userID(r), pathID(r))
	if m == nil {
		writeDetail(w, http.StatusNotFound, "Meeting not found")
		return
	}
	m.Notes += "\n" + req.Note
	writeJSON(w, http.StatusOK, map[string]string{"message": "Note added successfully"})
}

func (s *Server) meetingEnd(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.meetingByIDLocked(userID(r), pathID(r))
	if m == nil || m.Status != "active" {
		writeDetail(w, http.StatusNotFound, "Active meeting not found")
		return
	}
	mom := generateMoM(m.Title, m.Attendees, m.Notes)
	ended := now()
	m.MoM, m.Status, m.EndedAt = &mom, "completed", &ended
	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "Meeting ended successfully", "mom": mom, "meeting_id": m.ID})
}

func (s *Server) meetingList(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*Meeting{}
	for i := len(s.meetings) - 1; i >= 0; i-- {
		if s.meetings[i].UserID == uid {
			out = append(out, s.meetings[i])
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// =============================================================================
// MEETING FLOW HANDLERS
// =============================================================================

func (s *Server) activeFlowLocked(uid int, state string) *flow {
	f := s.flows[uid]
	if f == nil || f.State != state {
		return nil
	}
	return f
}

func (s *Server) flowStart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Attendees []string `json:"attendees"`
	}
	if !decode(w, r, &req) {
		return
	}
	uid := userID(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.flows[uid] != nil {
		writeDetail(w, http.StatusBadRequest, "There's already an active meeting flow")
		return
	}
	f := &flow{With: []attendee{}, Missing: []string{}}
	for _, name := range req.Attendees {
		name = strings.TrimSpace(name)
		if c, ok := s.contactByNameLocked(uid, name); ok {
			f.With = append(f.With, c)
		} else {
			f.Missing = append(f.Missing, name)
		}
	}
	f.State = "collecting_notes"
	if len(f.Missing) > 0 {
		f.State = "collecting_emails"
	}
	s.nextID++
	f.ID = s.nextID
	s.flows[uid] = f
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"flow_id":               f.ID,
		"flow_state":            f.State,
		"attendees_with_emails": f.With,
		"missing_emails":        f.Missing,
		"message":               "Meeting flow started",
	})
}

func (s *Server) flowAddEmail(w http.ResponseWriter, r *http.Request) {
	var req attendee
	if !decode(w, r, &req) {
		return
	}
	uid := userID(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.activeFlowLocked(uid, "collecting_emails")
	if f == nil {
		writeDetail(w, http.StatusBadRequest, "No active meeting flow in email collection state")
		return
	}
	s.upsertContactLocked(uid, req.Name, req.Email)
	f.With = append(f.With, req)
	for i, name := range f.Missing {
		if name == req.Name {
			f.Missing = append(f.Missing[:i], f.Missing[i+1:]...)
			break
		}
	}
	if len(f.Missing) == 0 {
		f.State = "collecting_notes"
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":           "Email added successfully",
		"flow_state":        f.State,
		"remaining_missing": f.Missing,
	})
}

func (s *Server) flowAddNote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Note string `json:"note"`
	}
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.activeFlowLocked(userID(r), "collecting_notes")
	if f == nil {
		writeDetail(w, http.StatusBadRequest, "No active meeting flow in note collection state")
		return
	}
	f.Notes = append(f.Notes, req.Note)
	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "Note added successfully", "total_notes": len(f.Notes)})
}

func (s *Server) flowEnd(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.activeFlowLocked(userID(r), "collecting_notes")
	if f == nil {
		writeDetail(w, http.StatusBadRequest, "No active meeting flow in note collection state")
		return
	}
	points := make([]string, len(f.Notes))
	for i, n := range f.Notes {
		points[i] = "• " + n
	}
	f.State = "confirming_summary"
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"flow_state": "confirming_summary",
		"summary":    strings.Join(points, "\n"),
		"message":    "Meeting ended. Please review the summary.",
	})
}

func (s *Server) flowConfirm(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Approved bool `json:"approved"`
	}
	if !decode(w, r, &req) {
		return
	}
	uid := userID(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.activeFlowLocked(uid, "confirming_summary")
	if f == nil {
		writeDetail(w, http.StatusBadRequest, "No active meeting flow in summary confirmation state")
		return
	}
	if !req.Approved {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Summary not approved. Please provide feedback or restart the process."})
		return
	}
	names := make([]string, len(f.With))
	for i, a := range f.With {
		names[i] = a.Name
	}
	title := "Meeting - " + time.Now().Format("January 02, 2006 at 03:04 PM")
	notes := strings.Join(f.Notes, "\n")
	mom := generateMoM(title, strings.Join(names, ", "), notes)
	ended := now()
	s.nextID++
	m := &Meeting{ID: s.nextID, UserID: uid, Title: title, Attendees: strings.Join(names, ", "), Notes: notes, MoM: &mom, Status: "completed", CreatedAt: now(), EndedAt: &ended}
	s.meetings = append(s.meetings, m)
	f.State, f.MeetingID = "sending_emails", m.ID
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"flow_state": "sending_emails",
		"meeting_id": m.ID,
		"mom":        mom,
		"attendees":  f.With,
		"message":    "MoM generated. Ready to send emails.",
	})
}

func (s *Server) flowSendEmails(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MeetingID int      `json:"meeting_id"`
		Attendees []string `json:"attendees"`
	}
	if !decode(w, r, &req) {
		return
	}
	uid := userID(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.activeFlowLocked(uid, "sending_emails")
	if f == nil {
		writeDetail(w, http.StatusBadRequest, "No active meeting flow in email sending state")
		return
	}
	m := s.meetingByIDLocked(uid, req.MeetingID)
	if m == nil {
		writeDetail(w, http.StatusNotFound, "Meeting not found")
		return
	}
	sent, failed := []string{}, []string{}
	for _, a := range f.With {
		body := fmt.Sprintf("Dear %s,\n\nPlease find the Minutes of the Meeting below:\n\n%s", a.Name, *m.MoM)
		if s.sendLocked(uid, a.Email, "Meeting Minutes - "+m.Title, body, "meeting_minutes") {
			sent = append(sent, a.Email)
		} else {
			failed = append(failed, a.Email)
		}
	}
	delete(s.flows, uid)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"flow_state":    "completed",
		"sent_emails":   sent,
		"failed_emails": failed,
		"message":       fmt.Sprintf("Meeting flow completed. Emails sent to %d attendees.", len(sent)),
	})
}

func (s *Server) flowStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	f := s.flows[userID(r)]
	s.mu.Unlock()
	if f == nil {
		writeJSON(w, http.StatusOK, map[string]string{"flow_state": "none", "message": "No active meeting flow"})
		return
	}
	var meetingID interface{}
	if f.MeetingID != 0 {
		meetingID = f.MeetingID
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"flow_state": f.State,
		"flow_id":    f.ID,
		"meeting_id": meetingID,
		"message":    "Active meeting flow in " + f.State + " state",
	})
}

// =============================================================================
// CONTACT, TASK, TODO AND EMAIL HANDLERS
// =============================================================================

func (s *Server) contactCreate(w http.ResponseWriter, r *http.Request) {
	var req attendee
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	s.upsertContactLocked(userID(r), req.Name, req.Email)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"message": "Contact created successfully"})
}

func (s *Server) contactList(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	s.mu.Lock()
	list := append([]attendee(nil), s.contacts[uid]...)
	s.mu.Unlock()
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	out := make([]map[string]interface{}, len(list))
	for i, c := range list {
		out[i] = map[string]interface{}{"id": i + 1, "name": c.Name, "email": c.Email}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"contacts": out})
}

func (s *Server) taskCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title         string `json:"title"`
		Description   string `json:"description"`
		Assignee      string `json:"assignee"`
		AssigneeEmail string `json:"assignee_email"`
		Priority      string `json:"priority"`
		DueDate       string `json:"due_date"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.Priority == "" {
		req.Priority = "medium"
	}
	uid := userID(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.tasks = append(s.tasks, &task{
		ID: s.nextID, UserID: uid, Title: req.Title, Description: strPtr(req.Description),
		Assignee: strPtr(req.Assignee), AssigneeEmail: strPtr(req.AssigneeEmail),
		Priority: req.Priority, Status: "pending", CreatedAt: now(), DueDate: strPtr(req.DueDate),
	})
	id := s.nextID
	if req.AssigneeEmail != "" {
		s.sendLocked(uid, req.AssigneeEmail, "Task assigned: "+req.Title, req.Description, "task_assignment")
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"task_id": id, "message": "Task created successfully"})
}

func (s *Server) taskList(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*task{}
	for i := len(s.tasks) - 1; i >= 0; i-- {
		if s.tasks[i].UserID == uid {
			out = append(out, s.tasks[i])
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) taskComplete(w http.ResponseWriter, r *http.Request) {
	uid, id := userID(r), pathID(r)
	s.mu.Lock()
	for _, t := range s.tasks {
		if t.ID == id && t.UserID == uid {
			t.Status = "completed"
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"message": "Task marked as completed"})
}

func (s *Server) todoCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.todos = append(s.todos, &todo{ID: s.nextID, UserID: userID(r), Title: req.Title, Description: strPtr(req.Description), Status: "pending", CreatedAt: now()})
	writeJSON(w, http.StatusOK, map[string]interface{}{"todo_id": s.nextID, "message": "Todo created successfully"})
}

func (s *Server) todoList(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*todo{}
	for i := len(s.todos) - 1; i >= 0; i-- {
		if s.todos[i].UserID == uid {
			out = append(out, s.todos[i])
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) todoComplete(w http.ResponseWriter, r *http.Request) {
	uid, id := userID(r), pathID(r)
	s.mu.Lock()
	for _, t := range s.todos {
		if t.ID == id && t.UserID == uid {
			done := now()
			t.Status, t.CompletedAt = "completed", &done
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"message": "Todo marked as completed"})
}

func (s *Server) emailSend(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Recipient string `json:"recipient"`
		Subject   string `json:"subject"`
		Body      string `json:"body"`
		EmailType string `json:"email_type"`
	}
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	ok := s.sendLocked(userID(r), req.Recipient, req.Subject, req.Body, req.EmailType)
	s.mu.Unlock()
	if !ok {
		writeDetail(w, http.StatusInternalServerError, "Failed to send email")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Email sent successfully"})
}

func (s *Server) emailDraft(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Recipient string `json:"recipient"`
		Context   string `json:"context"`
	}
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	ready := s.openAI
	s.mu.Unlock()
	if !ready {
		writeDetail(w, http.StatusInternalServerError, "OpenAI API key not configured")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"subject": "Regarding: " + req.Context,
		"body":    "Hello " + req.Recipient + ",\n\n" + req.Context,
	})
}

func (s *Server) emailList(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*Email{}
	for i := len(s.emails) - 1; i >= 0 && len(out) < 20; i-- {
		if s.emails[i].UserID == uid {
			out = append(out, s.emails[i])
		}
	}
	writeJSON(w, http.StatusOK, out)
}
