// ABOUTME: User-facing chat texts and the HTML rendering of search results
// ABOUTME: All strings the bot sends live here so handlers stay free of copy

package handlers

import (
	"fmt"
	"strings"

	"songfinder-bot/core/domain"

	"golang.org/x/net/html"
)

// SearchButton is the reply-keyboard button that prompts for lyrics
const SearchButton = "🎵 Search Song"

const (
	welcomeText = "🎵 Welcome to Song Finder Bot!\n\n" +
		"Send me some lyrics (even incomplete) and I'll help you find the song.\n\n" +
		"Just type the lyrics you remember and I'll search for matching songs!"

	helpText = "📝 How to use:\n\n" +
		"1. Send me any lyrics you remember (doesn't need to be exact or complete)\n" +
		"2. I'll search for matching songs\n" +
		"3. I'll show you the song title, artist, and album\n\n" +
		"Example: 'imagine all the people' → will find John Lennon's 'Imagine'\n\n" +
		"Commands:\n" +
		"/start - Start the bot\n" +
		"/help - Show this message\n" +
		"/search <lyrics> - Search for a song"

	searchUsageText  = "Usage: /search <lyrics>"
	searchPromptText = "Send me the lyrics you remember:"
	retryingText     = "🤔 Couldn't find exact match. Trying smarter search..."
	noResultsText    = "❌ No songs found.\n\n💡 Tips:\n- Try fewer words\n- Use the chorus\n- Check spelling"
	resultsHeader    = "🎵 Found matching songs:\n\n"

	listeningText       = "🎙️ Listening to your voice..."
	unintelligibleText  = "❌ Sorry, I couldn't understand the audio. Please speak clearly."
	networkErrorText    = "⚠️ Network error: Check your internet connection"
	voiceDisabledText   = "🎙️ Voice search is not available right now. Please type the lyrics instead."
	slowDownText        = "⏳ Slow down a little! Try again in a few seconds."
	speechServiceFormat = "⚠️ Speech service error: %s"
	voiceFailureFormat  = "❌ Error processing voice: %s"
	voiceTooLongFormat  = "⏱️ Voice messages must be shorter than %s. Please send a shorter clip."
	searchingFormat     = "🔍 Searching for: '%s'..."
	heardFormat         = "📝 Heard: '%s'"
)

// searchingText announces the query about to be searched
func searchingText(query string) string {
	return fmt.Sprintf(searchingFormat, query)
}

// heardText echoes a transcript back to the user
func heardText(transcript string) string {
	return fmt.Sprintf(heardFormat, transcript)
}

// RenderResults formats songs as the numbered HTML list sent to the chat
func RenderResults(songs []domain.Song) string {
	var b strings.Builder
	b.WriteString(resultsHeader)

	for i, song := range songs {
		fmt.Fprintf(&b, "%d. <b>%s</b>\n", i+1, html.EscapeString(song.Title))
		fmt.Fprintf(&b, "   Artist: %s\n", html.EscapeString(song.Artist))
		fmt.Fprintf(&b, "   Album: %s\n", html.EscapeString(song.Album))
		if song.HasURL() {
			fmt.Fprintf(&b, "   🔗 <a href='%s'>View on Genius</a>\n", html.EscapeString(song.URL))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// spokenSummary is read aloud as the voice reply to a voice query
func spokenSummary(songs []domain.Song) string {
	if len(songs) == 0 {
		return ""
	}
	return "The best match is " + songs[0].Describe() + "."
}
