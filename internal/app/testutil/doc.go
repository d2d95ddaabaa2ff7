// Package testutil provides test doubles and fixtures shared by the
// pipeline, converter and HTTP tests.
//
// The mocks are built on testify/mock:
//   - MockTranscriber stands in for the AssemblyAI client and records each
//     audio path it was handed, and whether the file still existed.
//   - MockNormalizer stands in for ffmpeg; with no configured result it
//     writes a stub WAV header to the destination.
//
// Fixtures cover the common transcripts (GreetingUtterances and
// GreetingTranscript), terminal results (CompletedResult, ErrorResult) and
// scratch-directory checks (WriteAudioFile, AssertDirEmpty).
//
// NewObservedLogger and AssertLogged capture zap output for assertions.
//
// Mocks of the API services live in testutil/servicemock so that packages
// below the API layer can import testutil without a cycle.
//
// # Usage
//
//	func TestRun(t *testing.T) {
//	    normalizer := testutil.NewMockNormalizer(t)
//	    normalizer.ExpectSuccess()
//	    transcriber := testutil.NewMockTranscriber(t)
//	    transcriber.ExpectResult(testutil.GreetingUtterances...)
//
//	    p := pipeline.New(pipeline.Config{ScratchDir: t.TempDir()}, normalizer, transcriber, nil, nil)
//	    outcome, err := p.Run(ctx, upload, nil)
//	    require.NoError(t, err)
//	    assert.Equal(t, testutil.GreetingTranscript, outcome.Transcript)
//	}
package testutil
