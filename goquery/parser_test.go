package goquery_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mslomka/wwdc"
	"github.com/mslomka/wwdc/goquery"
	"github.com/mslomka/wwdc/mock"
)

const sessionPage = `<!DOCTYPE html>
<html>
<head>
<meta property="og:title" content="What&#39;s New in Xcode - WWDC 2025 - Apple Developer">
<meta name="description" content="Fallback description.">
</head>
<body>
<script>
var player = {
  "hd": "https://devstreaming-cdn.apple.com/videos/wwdc/2025/247/4/abc/downloads/wwdc2025-247_hd.mp4",
  "sd": "https://devstreaming-cdn.apple.com/videos/wwdc/2025/247/4/abc/downloads/wwdc2025-247_sd.mp4",
  "hls": "https://devstreaming-cdn.apple.com/videos/wwdc/2025/247/4/abc/cmaf.m3u8"
};
</script>
<ul class="supplements">
<li data-supplement-id="details" class="supplement details">
  <h2>Details</h2>
  <p>Discover the latest productivity features in <a href="/xcode/">Xcode</a>.</p>
  <ul class="links">
    <li><a href="?time=0">0:00 - Intro</a></li>
    <li><a href="?time=150">2:30 - Demo</a></li>
  </ul>
  <ul class="links small">
    <li><a href="https://developer.apple.com/documentation/xcode">Xcode documentation</a></li>
    <li><a href="https://docs.swift.org/swift-book/">The Swift Programming Language</a></li>
    <li><a href="https://example.com/video.mp4">HD Video</a></li>
  </ul>
</li>
<li data-supplement-id="sample-code" class="supplement sample-code">
  <h2>Code</h2>
  <ul>
    <li class="sample-code-main-container">
      <p>2:40 - <a class="jump-to-time-sample" data-start-time="160">Build a view</a></p>
      <pre class="code-source"><code>struct ContentView: View {
    var body: some View { Text(&quot;Hello&quot;) }
}</code></pre>
    </li>
    <li class="sample-code-main-container">
      <p>1:15 - <a class="jump-to-time-sample" data-start-time="75">TextEditor and String</a></p>
      <pre class="code-source"><code>import SwiftUI</code></pre>
    </li>
  </ul>
</li>
</ul>
<section id="transcript-content">
  <p>
    <span class="sentence"><span data-start="0.5">Welcome to the session.</span></span>
    <span class="sentence"><span data-start="151">Now let me show you a demo.</span></span>
  </p>
</section>
</body>
</html>`

func TestParser_ParseSession(t *testing.T) {
	t.Parallel()

	p := goquery.NewParser(2025)
	doc, warnings, err := p.ParseSession(sessionPage)
	require.NoError(t, err)
	require.NotNil(t, doc)

	t.Run("title suffix stripped", func(t *testing.T) {
		assert.Equal(t, "What's New in Xcode", doc.Title)
	})

	t.Run("description from details supplement", func(t *testing.T) {
		assert.Equal(t, "Discover the latest productivity features in Xcode.", doc.Description)
	})

	t.Run("chapters ordered with display timestamps preserved", func(t *testing.T) {
		require.Len(t, doc.Chapters, 2)
		assert.Equal(t, wwdc.Chapter{Time: "0:00", Seconds: 0, Name: "Intro"}, doc.Chapters[0])
		assert.Equal(t, wwdc.Chapter{Time: "2:30", Seconds: 150, Name: "Demo"}, doc.Chapters[1])
	})

	t.Run("resources deduplicated with absolute URLs", func(t *testing.T) {
		require.Len(t, doc.Resources, 2)
		assert.Equal(t, "Xcode documentation", doc.Resources[0].Title)
		assert.Equal(t, "https://developer.apple.com/documentation/xcode", doc.Resources[0].URL)
		assert.Equal(t, "https://docs.swift.org/swift-book/", doc.Resources[1].URL)
		for _, r := range doc.Resources {
			assert.NotContains(t, r.URL, ".mp4", "video links are not resources")
		}
	})

	t.Run("code samples with entities unescaped", func(t *testing.T) {
		require.Len(t, doc.CodeSamples, 2)

		first := doc.CodeSamples[0]
		assert.Equal(t, 1, first.Index)
		assert.Equal(t, "Build a view", first.Title)
		assert.Equal(t, "2:40", first.Time)
		assert.Equal(t, 160, first.Seconds)
		assert.Equal(t, "swift", first.Language)
		assert.Contains(t, first.Code, `Text("Hello")`)
		assert.NotContains(t, first.Code, "&quot;")

		second := doc.CodeSamples[1]
		assert.Equal(t, "TextEditor and String", second.Title)
		assert.Equal(t, "1:15", second.Time)
		assert.Equal(t, 75, second.Seconds)
	})

	t.Run("code samples attach to nearest preceding chapter", func(t *testing.T) {
		// Sample at 160s comes after the Demo chapter at 150s.
		require.NotNil(t, doc.CodeSamples[0].Chapter)
		assert.Equal(t, "Demo", doc.CodeSamples[0].Chapter.Name)
		assert.Equal(t, 150, doc.CodeSamples[0].Chapter.Seconds)

		// Sample at 75s is still inside Intro.
		require.NotNil(t, doc.CodeSamples[1].Chapter)
		assert.Equal(t, "Intro", doc.CodeSamples[1].Chapter.Name)
	})

	t.Run("transcript normalized with display times", func(t *testing.T) {
		require.Len(t, doc.Transcript, 2)
		assert.Equal(t, 0, doc.Transcript[0].Seconds)
		assert.Equal(t, "00:00", doc.Transcript[0].Time)
		assert.Equal(t, "Welcome to the session.", doc.Transcript[0].Text)
		assert.Equal(t, 151, doc.Transcript[1].Seconds)
		assert.Equal(t, "02:31", doc.Transcript[1].Time)
	})

	t.Run("video urls extracted", func(t *testing.T) {
		assert.Contains(t, doc.Video.HD, "_hd.mp4")
		assert.Contains(t, doc.Video.SD, "_sd.mp4")
		assert.Contains(t, doc.Video.HLS, "cmaf.m3u8")
		assert.Equal(t, doc.Video.SD, doc.Video.Download(), "SD preferred for download")
	})

	t.Run("complete page yields no warnings", func(t *testing.T) {
		assert.Empty(t, warnings)
	})
}

func TestParser_ParseSession_MissingSections(t *testing.T) {
	t.Parallel()

	page := `<html><head>
<meta property="og:title" content="Keynote - Apple Developer">
<meta name="description" content="The opening keynote.">
</head><body><div class="hero">Keynote</div></body></html>`

	p := goquery.NewParser(2025)
	doc, warnings, err := p.ParseSession(page)
	require.NoError(t, err)

	assert.Equal(t, "Keynote", doc.Title)
	assert.Equal(t, "The opening keynote.", doc.Description, "meta description fallback")
	assert.Empty(t, doc.Transcript)

	sections := make(map[string]bool)
	for _, w := range warnings {
		sections[w.Section] = true
	}
	assert.True(t, sections[wwdc.SectionTranscript])
	assert.True(t, sections[wwdc.SectionChapters])
	assert.True(t, sections[wwdc.SectionCodeSamples])
	assert.False(t, sections[wwdc.SectionDescription])
}

func TestParser_ParseSession_NoChaptersNilAssociation(t *testing.T) {
	t.Parallel()

	page := `<html><head><meta property="og:title" content="No Chapters - Apple Developer"></head><body>
<li data-supplement-id="sample-code" class="supplement sample-code"><ul>
<li class="sample-code-main-container">
<p>2:30 - <a class="jump-to-time-sample" data-start-time="150">Sample</a></p>
<pre class="code-source"><code>let x = 1</code></pre>
</li>
</ul></li>
<section id="transcript-content"><span class="sentence"><span data-start="1">Hi.</span></span></section>
</body></html>`

	p := goquery.NewParser(2025)
	doc, _, err := p.ParseSession(page)
	require.NoError(t, err)

	require.Len(t, doc.CodeSamples, 1)
	assert.Nil(t, doc.CodeSamples[0].Chapter, "no chapters means nil association, not an error")
}

func TestParser_ParseSession_TotalFailure(t *testing.T) {
	t.Parallel()

	p := goquery.NewParser(2025)
	_, _, err := p.ParseSession(`<html><body><div>nothing recognizable</div></body></html>`)

	require.Error(t, err)
	assert.Equal(t, wwdc.EPARSE, wwdc.ErrorCode(err))
}

func TestParser_ParseSession_ConverterDescription(t *testing.T) {
	t.Parallel()

	conv := &mock.Converter{
		ConvertFn: func(html string) (string, error) {
			assert.Contains(t, html, "<a href=")
			return "Discover [Xcode](/documentation/xcode).", nil
		},
	}
	p := goquery.NewParser(2025, goquery.WithConverter(conv))

	doc, _, err := p.ParseSession(sessionPage)
	require.NoError(t, err)
	assert.Equal(t, "Discover [Xcode](/documentation/xcode).", doc.Description)
}

func TestParser_RoundTripTimestamps(t *testing.T) {
	t.Parallel()

	p := goquery.NewParser(2025)
	doc, _, err := p.ParseSession(sessionPage)
	require.NoError(t, err)

	// Re-serializing chapters must reproduce the original display strings.
	for _, ch := range doc.Chapters {
		parsed, perr := wwdc.ParseTimestamp(ch.Time)
		require.NoError(t, perr)
		assert.Equal(t, ch.Seconds, parsed)
	}
	for _, cs := range doc.CodeSamples {
		parsed, perr := wwdc.ParseTimestamp(cs.Time)
		require.NoError(t, perr)
		assert.Equal(t, cs.Seconds, parsed)
	}
}
