// Package knowledge holds the static catalog of known technical problems
// and their fixes, matched by keyword against incoming messages.
package knowledge

import (
	"strings"

	"konsultabot/models"
)

type entry struct {
	keywords   []string
	problem    string
	solution   string
	prevention string
	confidence float64
}

// Catalog is a read-only set of catalogued fixes keyed by language.
type Catalog struct {
	entries map[string][]entry
}

// NewCatalog returns the built-in technical solution catalog.
func NewCatalog() *Catalog {
	return &Catalog{entries: map[string][]entry{
		"english": {
			{
				keywords:   []string{"printer", "printing", "print"},
				problem:    "Printer Not Working",
				solution:   "1. Check the power cable and make sure the printer is turned on.\n2. Verify the USB or network connection.\n3. Clear any paper jams and reseat the paper tray.\n4. Restart the printer and try printing a test page.\n5. Reinstall or update the printer driver if the problem persists.",
				prevention: "Keep the printer firmware updated and avoid overfilling the paper tray.",
				confidence: 0.95,
			},
			{
				keywords:   []string{"wifi", "wi-fi", "wireless", "internet connection", "no internet"},
				problem:    "WiFi Connection Problems",
				solution:   "1. Toggle WiFi off and back on.\n2. Forget the network and reconnect with the correct password.\n3. Restart your router and wait one minute.\n4. Move closer to the access point.\n5. If other devices connect fine, update your device's network driver.",
				prevention: "Place the router away from interference sources and restart it periodically.",
				confidence: 0.92,
			},
			{
				keywords:   []string{"computer slow", "pc slow", "running slow", "laptop slow", "very slow"},
				problem:    "Computer Running Slow",
				solution:   "1. Close unused programs and browser tabs.\n2. Restart the computer.\n3. Check available disk space and free at least 10%.\n4. Run a malware scan.\n5. Disable unnecessary startup programs.",
				prevention: "Restart regularly, keep at least 10% disk free, and run scheduled malware scans.",
				confidence: 0.9,
			},
			{
				keywords:   []string{"forgot password", "reset password", "password reset", "locked out"},
				problem:    "Password Reset",
				solution:   "1. Use the \"Forgot password\" link on the login page.\n2. Check your registered email for the reset link.\n3. If no email arrives, check the spam folder.\n4. For campus accounts, visit the IT office with your student ID.",
				prevention: "Use a password manager and set up account recovery options ahead of time.",
				confidence: 0.93,
			},
			{
				keywords:   []string{"virus", "malware", "infected", "pop-up", "popup ads"},
				problem:    "Virus or Malware Infection",
				solution:   "1. Disconnect from the network.\n2. Run a full antivirus scan and quarantine findings.\n3. Uninstall unrecognized programs.\n4. Reset browser settings if pop-ups persist.\n5. Change your passwords from a clean device afterwards.",
				prevention: "Keep antivirus definitions current and avoid downloads from untrusted sites.",
				confidence: 0.9,
			},
			{
				keywords:   []string{"email not", "cannot send email", "can't send email", "outlook"},
				problem:    "Email Problems",
				solution:   "1. Verify you are connected to the internet.\n2. Check the outbox for stuck messages and attachment size limits.\n3. Confirm your account password has not expired.\n4. Remove and re-add the account in your mail client.",
				prevention: "Keep attachments under the size limit and archive old mail regularly.",
				confidence: 0.88,
			},
			{
				keywords:   []string{"projector", "no display", "screen not showing", "hdmi"},
				problem:    "Projector or Display Issues",
				solution:   "1. Check the video cable on both ends.\n2. Select the correct input source on the projector.\n3. Use the display toggle key (often Fn+F4/F5) on the laptop.\n4. Try a different cable or port.",
				prevention: "Label working cables and test the setup before presentations.",
				confidence: 0.87,
			},
		},
		"bisaya": {
			{
				keywords:   []string{"printer", "dili makaprint"},
				problem:    "Problema sa Printer",
				solution:   "1. Susiha ang kuryente ug siguroha nga naka-on ang printer.\n2. Susiha ang koneksyon sa USB o network.\n3. Kuhaa ang naipit nga papel.\n4. I-restart ang printer ug sulayi pag-print usab.",
				prevention: "Ayaw pun-a ug sobra ang papel sa tray.",
				confidence: 0.9,
			},
			{
				keywords:   []string{"wifi", "walay internet"},
				problem:    "Problema sa WiFi",
				solution:   "1. I-off ug i-on ang WiFi.\n2. I-restart ang router.\n3. Duol sa router kung huyang ang signal.",
				prevention: "I-restart ang router matag semana.",
				confidence: 0.88,
			},
		},
		"waray": {
			{
				keywords:   []string{"printer", "diri nagpi-print"},
				problem:    "Problema ha Printer",
				solution:   "1. Kitaa an kuryente ngan siguruha nga naka-on an printer.\n2. Kitaa an koneksyon han USB o network.\n3. Kuhaa an na-ipit nga papel.\n4. I-restart an printer ngan sarihi utro.",
				prevention: "Ayaw sobra-i hin papel an tray.",
				confidence: 0.9,
			},
		},
	}}
}

// Solution returns the highest-confidence catalogued fix matching the
// message for the given language, or false when nothing matches.
// Unknown languages fall back to the english catalog.
func (c *Catalog) Solution(message, language string) (*models.TechnicalSolution, bool) {
	entries, ok := c.entries[strings.ToLower(language)]
	if !ok {
		entries = c.entries["english"]
	}

	lower := strings.ToLower(message)
	var best *entry
	for i := range entries {
		e := &entries[i]
		for _, kw := range e.keywords {
			if strings.Contains(lower, kw) {
				if best == nil || e.confidence > best.confidence {
					best = e
				}
				break
			}
		}
	}

	if best == nil {
		return nil, false
	}
	return &models.TechnicalSolution{
		Problem:    best.problem,
		Solution:   best.solution,
		Prevention: best.prevention,
		Confidence: best.confidence,
	}, true
}
