// Package events defines the typed events published while the assistant
// talks to the user through the avatar.
//
// Event kinds are grouped by namespace:
//
//   - avatar.*
//   - user_input.*
//   - assistant_response.*
//   - assistant_speech.*
//
// avatar events
//
//   - AvatarConnected (avatar.connected): the avatar finished initialising.
//   - AvatarDisconnected (avatar.disconnected): the avatar instance was
//     destroyed or its connection closed.
//   - AvatarStateChanged (avatar.state_changed): the avatar reported a new
//     liveness state.
//   - AvatarSubtitleOn (avatar.subtitle_on): the avatar started showing a
//     subtitle.
//   - AvatarSubtitleOff (avatar.subtitle_off): the subtitle was hidden.
//
// user_input events
//
//   - RecognitionStarted (user_input.recognition_started): speech recognition
//     accepted the audio stream.
//   - UserTranscriptInterimUpdated (user_input.transcript_interim_updated):
//     mutable snapshot of the sentence being recognised.
//   - UserTranscriptFinal (user_input.transcript_final): a recognised
//     sentence.
//   - RecognitionCompleted (user_input.recognition_completed): recognition
//     ended.
//   - RecognitionFailed (user_input.recognition_failed): recognition reported
//     an error.
//
// assistant_response events
//
//   - AssistantResponseSegment (assistant_response.segment): streamed
//     response text in stream order.
//   - AssistantResponseFinal (assistant_response.final): the response text
//     stream ended.
//   - AssistantResponseFailed (assistant_response.failed): the response could
//     not be generated or spoken.
//
// assistant_speech events
//
//   - AssistantSpeechFragmentDispatched (assistant_speech.fragment_dispatched):
//     a fragment was handed to the avatar together with its framing flags.
package events
