package prompt

import "sort"

var sentences = map[string][]string{
	"easy": {
		"The cat sat on the mat.",
		"I like to read books.",
		"She walks to school.",
		"The sun is bright today.",
		"We eat dinner at six.",
		"My dog is very friendly.",
		"He plays with his toys.",
		"The sky is blue and clear.",
		"I drink water every day.",
		"She sings a happy song.",
	},
	"medium": {
		"Practice makes progress. Consistency beats motivation every single day.",
		"The quick brown fox jumps over the lazy dog while practicing typing skills.",
		"Programming is the art of telling another human what one wants the computer to do.",
		"Typing speed and accuracy are valuable skills in today's digital world.",
		"Success is not the key to happiness. Happiness is the key to success.",
		"The only way to do great work is to love what you do with passion.",
		"Every expert was once a beginner who never gave up on their practice.",
		"Technology is best when it brings people together through shared experiences.",
		"The future belongs to those who believe in the beauty of their dreams.",
		"Learning to code is learning to create and innovate in the digital age.",
	},
	"hard": {
		"The juxtaposition of quantum mechanics and relativity theory continues to perplex physicists worldwide.",
		"Entrepreneurs must navigate complex regulatory frameworks while innovating disruptive technologies.",
		"Cryptocurrency volatility necessitates sophisticated risk management strategies for institutional investors.",
		"Epistemological debates concerning artificial consciousness raise profound philosophical implications.",
		"Multidisciplinary collaboration accelerates biomedical research breakthroughs and therapeutic discoveries.",
		"Anthropogenic climate change necessitates immediate international policy coordination and mitigation efforts.",
		"Neuroplasticity research reveals remarkable adaptive capabilities within the human cerebral cortex.",
		"Postmodern literary deconstruction challenges traditional narrative structures and authorial authority.",
		"Quantum computing algorithms potentially revolutionize cryptography and data security paradigms.",
		"Sustainable urban planning integrates ecological preservation with socioeconomic development objectives.",
	},
	"numbers": {
		"123 456 789 0 987 654 321",
		"1.5 2.75 3.25 4.8 5.9 6.1",
		"2023 1999 1776 1492 1066",
		"555-1234 800-555-0199 911",
		"3.14159 2.71828 1.61803 0.57721",
	},
	"code": {
		"function add(a, b) { return a + b; }",
		"const users = users.filter(u => u.active);",
		"<div class=\"container\"><p>Hello</p></div>",
		"SELECT * FROM users WHERE active = true;",
		"for i in range(10): print(f\"Number: {i}\")",
		"docker run -d -p 8080:80 --name webserver nginx:alpine",
		"git commit -m \"feat: add new feature\" && git push origin main",
	},
	"quotes": {
		"The only way to do great work is to love what you do. - Steve Jobs",
		"Innovation distinguishes between a leader and a follower. - Steve Jobs",
		"The future belongs to those who believe in the beauty of their dreams. - Eleanor Roosevelt",
		"Success is not final, failure is not fatal: it is the courage to continue that counts. - Winston Churchill",
		"The best time to plant a tree was 20 years ago. The second best time is now. - Chinese Proverb",
	},
	"pangram": {
		"The quick brown fox jumps over the lazy dog.",
		"Pack my box with five dozen liquor jugs.",
		"How vexingly quick daft zebras jump!",
		"The five boxing wizards jump quickly.",
		"Sphinx of black quartz, judge my vow.",
	},
}

// Durations with a dedicated timer paragraph, in seconds.
var timerParagraphs = map[int]string{
	30:  "Typing quickly and accurately is a valuable skill in today's digital world. Regular practice with typing tests can significantly improve your speed over time. Focus on hitting the correct keys without looking at your keyboard. Start slow and gradually increase your pace as you become more comfortable.",
	60:  "Touch typing is the ability to type without looking at the keyboard, and it's a skill that can dramatically increase your productivity. Professional typists can reach speeds of over 100 words per minute with high accuracy. To improve, focus on proper finger placement and practice regularly with different types of texts. Speed will naturally increase as muscle memory develops. Typing tests provide measurable feedback that helps track your progress over weeks and months.",
	90:  "Mastering typing is an investment that pays dividends throughout your personal and professional life. In our digital age, almost every job requires some level of typing proficiency. Beyond just speed, good typists develop rhythm and flow that makes writing more enjoyable and less fatiguing. The benefits extend to reduced strain on your hands and wrists when you use proper technique. Start by learning the home row keys and practice with a variety of texts. Regular, focused practice will yield better results than sporadic marathon sessions.",
	120: "Advanced typing proficiency involves more than just speed; it encompasses accuracy, rhythm, and endurance. Professional transcriptionists and data entry specialists often maintain speeds of 80-120 WPM for extended periods. To reach this level, consider practicing with diverse text types including technical documents, creative writing, and numerical data. Implement ergonomic principles to prevent repetitive strain injuries. Monitor your progress through detailed analytics and adjust your practice routine accordingly. Remember that consistent, deliberate practice over months and years yields the most significant improvements in both speed and accuracy.",
}

// Difficulties lists the built-in sentence sets.
func Difficulties() []string {
	out := make([]string, 0, len(sentences))
	for k := range sentences {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Sentences returns the built-in sentences for difficulty.
func Sentences(difficulty string) ([]string, bool) {
	s, ok := sentences[difficulty]
	if !ok {
		return nil, false
	}
	return append([]string(nil), s...), true
}

// TimerParagraph returns the paragraph for the longest listed duration not
// exceeding seconds, or the shortest one.
func TimerParagraph(seconds int) string {
	best := 0
	for d := range timerParagraphs {
		if d <= seconds && d > best {
			best = d
		}
	}
	if best == 0 {
		best = 30
	}
	return timerParagraphs[best]
}
