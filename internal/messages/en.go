package messages

// ─── Booking ─────────────────────────────────────────────────────────────────

const (
	BookingCreatedBody   = "Your booking at %s for %s has been received."
	BookingConfirmedBody = "Your booking at %s for %s is confirmed."
	BookingCancelledBody = "Your booking at %s for %s has been cancelled."
)

// ─── Review ──────────────────────────────────────────────────────────────────

const (
	ReviewRepliedBody = "%s replied to your review: %q"
)

// ─── Account email ───────────────────────────────────────────────────────────

const (
	VerificationSubject = "[TungTee888] Your email verification code."
	VerificationHTML    = `<div style="font-family: Arial, sans-serif; text-align: center; padding: 40px 20px;">
  <div style="font-size: 20px; font-weight: bold; margin-bottom: 20px;">Your Signup Verification Code</div>
  <div style="font-size: 24px; font-weight: bold; letter-spacing: 20px;">%s</div>
  <div style="margin-top: 10px; font-size: 14px;">Don't share this code with anyone!</div>
  <div style="margin: 20px 0;">This code was generated on <b>%s</b>. If you did not request it, you can safely ignore this email.</div>
  <div style="font-size: 12px; color: #555;">This is an automated message. <b>Please do not reply.</b></div>
</div>`
)
