// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/kouponize121/Jarvis-AI/internal/api"
	"github.com/kouponize121/Jarvis-AI/internal/flow"
	"github.com/kouponize121/Jarvis-AI/internal/model"
	"github.com/kouponize121/Jarvis-AI/internal/util"
)

// ErrBusy is returned by Submit while another command is running.
var ErrBusy = errors.New("jarvis is still working on the previous command")

// Client is the part of the API client the assistant uses.
type Client interface {
	flow.Client
	SystemStatus(ctx context.Context) (*api.SystemStatus, error)
	Chat(ctx context.Context, message, chatContext string) (*api.ChatResponse, error)
	StartMeeting(ctx context.Context, req api.StartMeetingRequest) (*api.StartMeetingResponse, error)
	AddMeetingNote(ctx context.Context, meetingID int, note string) (string, error)
	EndMeeting(ctx context.Context, meetingID int) (*api.EndMeetingResponse, error)
	CreateTask(ctx context.Context, req api.TaskRequest) (*api.TaskCreated, error)
	CreateTodo(ctx context.Context, req api.TodoRequest) (*api.TodoCreated, error)
	SendEmail(ctx context.Context, req api.SendEmailRequest) (string, error)
}

// Recorder persists the transcript as it grows.
type Recorder interface {
	RecordMessage(t *model.Transcript, msg *model.Message) error
	RecordLog(t *model.Transcript, entry model.LogEntry) error
}

// Snapshot is a consistent view of the assistant for rendering.
type Snapshot struct {
	Messages       []*model.Message
	Logs           []model.LogEntry
	FlowState      flow.State
	QuickMeetingID int
	Ready          bool
	Busy           bool
	Initialized    bool
	Activity       Activity
	StatusText     string
	Placeholder    string
}

// Assistant routes chat input to built-in commands, the meeting flow or the
// AI endpoint.
//
// Submit and Init run one at a time; a busy flag rejects overlapping calls.
// The goroutine holding the flag is the only writer of the chat state.
// Readers use Snapshot, which is safe from any goroutine.
type Assistant struct {
	client     Client
	flow       *flow.Machine
	transcript *model.Transcript
	recorder   Recorder
	logger     *zap.Logger

	// Owned by the busy holder.
	ready          bool
	initialized    bool
	quickMeetingID int
	activity       Activity
	statusText     string

	mu   sync.Mutex
	busy bool
	snap Snapshot
}

// New creates an assistant with an empty transcript.
func New(client Client) *Assistant {
	a := &Assistant{
		client:     client,
		flow:       flow.New(client),
		transcript: model.NewTranscript(),
		logger:     zap.NewNop(),
		activity:   ActivityIdle,
		statusText: StatusInitializing,
	}
	a.publish()
	return a
}

// WithRecorder persists every message and log entry through r.
func (a *Assistant) WithRecorder(r Recorder) *Assistant {
	a.recorder = r
	return a
}

// WithLogger sets the logger.
func (a *Assistant) WithLogger(logger *zap.Logger) *Assistant {
	if logger != nil {
		a.logger = logger.Named("assistant")
	}
	return a
}

// WithTranscript replaces the transcript, for example to tag it with the
// signed-in user.
func (a *Assistant) WithTranscript(t *model.Transcript) *Assistant {
	a.transcript = t
	a.publish()
	return a
}

// Transcript returns a copy of the transcript.
func (a *Assistant) Transcript() *model.Transcript {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.transcript.Clone()
}

// Snapshot returns the current view state.
func (a *Assistant) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	s := a.snap
	s.Busy = a.busy
	return s
}

// Busy reports whether a command is running.
func (a *Assistant) Busy() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.busy
}

// =============================================================================
// STATE PLUMBING
// =============================================================================

func (a *Assistant) acquire() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.busy {
		return false
	}
	a.busy = true
	return true
}

func (a *Assistant) release() {
	a.mu.Lock()
	a.busy = false
	a.mu.Unlock()
}

// publish copies the writer's state into the snapshot.
func (a *Assistant) publish() {
	placeholder := a.flow.Placeholder()
	if placeholder == "" {
		switch {
		case a.quickMeetingID != 0:
			placeholder = "Add meeting note or type a command..."
		case a.ready:
			placeholder = "Type a command or message..."
		default:
			placeholder = "Limited mode - configure OpenAI API for full features"
		}
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.snap = Snapshot{
		Messages:       append([]*model.Message(nil), a.transcript.Messages...),
		Logs:           append([]model.LogEntry(nil), a.transcript.Logs...),
		FlowState:      a.flow.State(),
		QuickMeetingID: a.quickMeetingID,
		Ready:          a.ready,
		Initialized:    a.initialized,
		Activity:       a.activity,
		StatusText:     a.statusText,
		Placeholder:    placeholder,
	}
}

func (a *Assistant) setActivity(act Activity, text string) {
	a.activity, a.statusText = act, text
	a.publish()
}

// settle resets the indicator after a command.
func (a *Assistant) settle() {
	if a.ready {
		a.setActivity(ActivityActive, StatusReady)
	} else {
		a.setActivity(ActivityIdle, StatusOffline)
	}
}

func (a *Assistant) add(kind model.Kind, text string) {
	a.mu.Lock()
	msg := a.transcript.Add(kind, text)
	a.mu.Unlock()
	if a.recorder != nil {
		if err := a.recorder.RecordMessage(a.transcript, msg); err != nil {
			a.logger.Warn("failed to record message", zap.Error(err))
		}
	}
	a.publish()
}

func (a *Assistant) jarvis(text string) { a.add(model.KindJarvis, text) }

func (a *Assistant) system(text string) { a.add(model.KindSystem, text) }

func (a *Assistant) log(text string) {
	a.mu.Lock()
	entry := a.transcript.Log(text)
	a.mu.Unlock()
	if a.recorder != nil {
		if err := a.recorder.RecordLog(a.transcript, entry); err != nil {
			a.logger.Warn("failed to record log", zap.Error(err))
		}
	}
	a.publish()
}

// apply shows the output of a flow step.
func (a *Assistant) apply(res flow.Result) {
	for _, line := range res.Lines {
		a.add(line.Kind, line.Text)
	}
	for _, entry := range res.Logs {
		a.log(entry)
	}
	a.publish()
}

// =============================================================================
// INIT
// =============================================================================

// Init checks the server and greets the user. It adopts a meeting flow the
// server still has open.
func (a *Assistant) Init(ctx context.Context) error {
	if !a.acquire() {
		return ErrBusy
	}
	defer a.release()
	a.setActivity(ActivityProcessing, StatusInitializing)

	status, err := a.client.SystemStatus(ctx)
	var flowStatus *api.FlowStatus
	if err == nil {
		flowStatus, err = a.client.FlowStatus(ctx)
	}
	if err != nil {
		a.logger.Warn("init failed", zap.Error(err))
		a.activity, a.statusText = ActivityIdle, StatusConnectionError
		if api.IsUnauthorized(err) {
			a.system("> Authentication error. Please log in again.")
			return nil
		}
		a.system("> Error checking system status. Please check your connection.")
		a.log("Error checking system status")
		return nil
	}

	a.ready = status.OpenAIConnected
	a.initialized = true
	a.system("> Jarvis AI Assistant initialized.")
	a.log("Jarvis AI Assistant started")

	if a.ready {
		a.activity, a.statusText = ActivityActive, StatusReady
		a.jarvis(`Hello! I am Jarvis, your AI personal assistant. I can help you with meetings, tasks, to-dos, and emails. Try commands like "start meeting", "create task", or "system check".`)
		a.log("OpenAI API connected - Ready to assist")
	} else {
		a.activity, a.statusText = ActivityIdle, StatusConfigNeeded
		a.system("> ⚠️ OpenAI API not configured. Please configure your API key in System settings to enable AI features.")
		a.jarvis(`I notice my AI capabilities are not yet configured. Please go to System settings to add your OpenAI API key and SMTP configuration. Until then, I can help with basic commands like "start meeting" and "system check".`)
		a.log("OpenAI API not configured - Limited functionality")
	}

	if flow.ParseState(flowStatus.FlowState).Active() {
		a.apply(a.flow.Resume(*flowStatus))
	}
	a.publish()
	return nil
}

// =============================================================================
// SUBMIT
// =============================================================================

// Submit handles one line of user input. Blank input is ignored. Failures
// are reported in the chat, so the error is only ErrBusy.
func (a *Assistant) Submit(ctx context.Context, input string) error {
	text := strings.TrimSpace(input)
	if text == "" {
		return nil
	}
	if !a.acquire() {
		return ErrBusy
	}
	defer a.release()

	a.setActivity(ActivityThinking, StatusProcessing)
	a.add(model.KindUser, "> "+text)
	a.log("User command: " + text)

	if err := a.route(ctx, text); err != nil {
		a.fail(err)
	}
	a.settle()
	return nil
}

// route picks the handler for text. Order matters: an active flow owns all
// input, and the end phrases are checked before the bare "meeting" match
// that starts a flow.
func (a *Assistant) route(ctx context.Context, text string) error {
	switch {
	case a.flow.Active():
		return a.handleFlow(ctx, text)

	case strings.HasPrefix(text, "/"):
		return a.handleSlash(ctx, text)

	case isStructured(text):
		a.setActivity(ActivityProcessing, StatusProcessing)
		return a.runStructured(ctx, text)

	case flow.IsEndCommand(text):
		a.setActivity(ActivityProcessing, StatusEndingMeeting)
		return a.endMeeting(ctx)

	case util.ContainsPhrase(text, "meeting"):
		a.setActivity(ActivityProcessing, StatusStartingFlow)
		a.apply(a.flow.Begin())
		return nil

	case util.ContainsPhrase(text, "system check"):
		a.setActivity(ActivityProcessing, StatusSystemCheck)
		a.systemCheck(ctx)
		return nil

	case util.ContainsPhrase(text, "who created you"):
		a.setActivity(ActivityProcessing, StatusMemory)
		a.jarvis("> I was created by Sumit Roy.")
		a.log("Creator information provided")
		return nil
	}
	return a.chat(ctx, text)
}

// fail reports an error from a route.
func (a *Assistant) fail(err error) {
	a.logger.Debug("command failed", zap.Error(err))
	a.setActivity(ActivityIdle, StatusError)
	if api.IsUnauthorized(err) {
		a.system("> Authentication error. Please log in again.")
		return
	}
	detail := api.Detail(err)
	a.system("> Error: " + detail)
	a.log("Error: " + detail)
}

func (a *Assistant) handleFlow(ctx context.Context, text string) error {
	res, err := a.flow.Handle(ctx, text)
	if err != nil {
		if api.IsUnauthorized(err) {
			return err
		}
		a.system("> Meeting flow error: " + api.Detail(err))
		return nil
	}
	a.apply(res)
	return nil
}

// endMeeting handles "end meeting" outside a flow: it ends a quick meeting
// when one is open.
func (a *Assistant) endMeeting(ctx context.Context) error {
	if a.quickMeetingID != 0 {
		return a.quickEnd(ctx)
	}
	a.jarvis("> No active meeting in note collection phase.")
	return nil
}

func (a *Assistant) systemCheck(ctx context.Context) {
	status, err := a.client.SystemStatus(ctx)
	if err != nil {
		if api.IsUnauthorized(err) {
			a.fail(err)
			return
		}
		a.system("> System check failed: " + api.Detail(err))
		return
	}
	a.system(status.Message)
	a.ready = status.OpenAIConnected
	a.log("System check completed")

	if status.OpenAIConnected {
		a.jarvis("> All systems operational. I am ready to assist with AI-powered features!")
	} else {
		a.jarvis("> Some systems need configuration. Please visit System settings to configure OpenAI API and SMTP.")
	}
}

func (a *Assistant) chat(ctx context.Context, text string) error {
	if !a.ready {
		a.setActivity(ActivityIdle, StatusConfigNeeded)
		a.system("> AI features are not available. Please configure your OpenAI API key in System settings first.")
		a.log("AI request blocked - API not configured")
		return nil
	}

	a.setActivity(ActivityThinking, StatusAIThinking)
	chatContext := ""
	if a.quickMeetingID != 0 {
		chatContext = "Current meeting: " + itoa(a.quickMeetingID)
	}
	resp, err := a.client.Chat(ctx, text, chatContext)
	if err != nil {
		return err
	}

	a.jarvis(resp.Response)
	a.log("AI response generated")

	if resp.CommandDetected != "" {
		a.setActivity(ActivityProcessing, StatusCommandDetected)
		a.log("Command detected: " + resp.CommandDetected)
		a.commandHint(resp.CommandDetected)
	}
	return nil
}

// commandHint explains the structured form of a command the AI spotted.
func (a *Assistant) commandHint(command string) {
	switch command {
	case api.CommandCreateTask:
		a.jarvis(`> I can help you create a task. Please use the format: "create task: [title] - [description] - [assignee_email]"`)
	case api.CommandCreateTodo:
		a.jarvis(`> I can help you create a to-do. Please use the format: "create todo: [title] - [description]"`)
	case api.CommandSendEmail:
		if !a.ready {
			a.system("> Email features require both OpenAI API and SMTP configuration.")
			return
		}
		a.jarvis(`> I can help you send an email. Please use the format: "send email to [recipient]: [subject] - [message]"`)
	}
}
