package orchestration

// CancelReply abandons the reply currently being spoken, if any. The avatar
// still receives the terminal call of that reply.
func (a *Assistant) CancelReply() {
	a.mu.Lock()
	cancel := a.cancelReply
	a.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}
