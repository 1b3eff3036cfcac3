// Package ui contains the Bubble Tea program that hosts the menus in a
// terminal. The menu engine itself is single threaded and event driven; the
// Model is the glue that turns terminal input into engine events and engine
// state into frames.
//
// Message flow:
//   - Mouse messages become PointerPress/PointerRelease/PointerMotion calls on
//     the menu.Coordinator in screen cells; key messages become menu.KeyEvent
//     values delivered to the focused menu.
//   - Hover timers live in a timer.Queue. After every update the model asks
//     the coordinator for the next deadline and schedules a single tea.Tick
//     for it; the tick fires whatever is due.
//   - Menu commands never block. Shell, tmux and window-switch actions are
//     queued on the command bus and their results come back as
//     command.Result messages that feed the status line.
//   - A backend.Watcher streams window snapshots and config edits; the
//     dispatcher refreshes the shared window menu and config edits trigger a
//     theme reload.
//
// ctrl+g opens the jump prompt, an incremental prefix filter over every menu
// path; Enter opens the chain of menus leading to the chosen entry.
//
// The program exits once no menu is visible and no action is in flight.
package ui
