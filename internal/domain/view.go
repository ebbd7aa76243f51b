package domain

// View is the single screen being displayed: either a day mode or the night
// screen. Night remembers the day mode to return to, so there is never a
// second field whose precedence has to be checked.
type View struct {
	night bool
	mode  AppMode
}

func DayView(mode AppMode) View {
	return View{mode: mode}
}

// NightView shows the night screen and resumes mode when it ends.
func NightView(resume AppMode) View {
	return View{night: true, mode: resume}
}

func (v View) IsNight() bool {
	return v.night
}

// Mode returns the day mode on screen, or the one night will resume to.
func (v View) Mode() AppMode {
	if v.mode == "" {
		return ModeChat
	}
	return v.mode
}

// Displayed names what is on screen: the day mode or "NIGHT".
func (v View) Displayed() string {
	if v.night {
		return "NIGHT"
	}
	return string(v.Mode())
}

// Toggled flips between day and night, keeping the day mode.
func (v View) Toggled() View {
	return View{night: !v.night, mode: v.Mode()}
}
