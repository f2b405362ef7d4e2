package license

import (
	"strings"

	"github.com/aljamieianynpharmacy-commits/elyousr-erp-sub003/pkg/contracts/domain"
)

// Locale selects the language of user-facing status messages.
type Locale string

const (
	LocaleEnglish Locale = "en"
	LocaleArabic  Locale = "ar"

	DefaultLocale = LocaleEnglish
)

// ParseLocale maps a language tag such as "ar", "ar-EG" or "en_US" to a
// supported Locale, falling back to DefaultLocale.
func ParseLocale(tag string) Locale {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if i := strings.IndexAny(tag, "-_"); i >= 0 {
		tag = tag[:i]
	}
	switch Locale(tag) {
	case LocaleArabic:
		return LocaleArabic
	case LocaleEnglish:
		return LocaleEnglish
	default:
		return DefaultLocale
	}
}

var messageCatalog = map[Locale]map[domain.LicenseState]string{
	LocaleEnglish: {
		domain.LicenseStateNoLicense:        "No license is installed. Import a license file to activate the application.",
		domain.LicenseStateActive:           "License is active.",
		domain.LicenseStateTrialActive:      "Trial license is active.",
		domain.LicenseStateExpired:          "The license has expired. Please request a renewed license file.",
		domain.LicenseStateInvalidSignature: "The license signature is invalid. The file may have been modified; please request a new license file.",
		domain.LicenseStateNotYetValid:      "The license is not valid yet. Check the system date or wait until the license start date.",
		domain.LicenseStateDeviceMismatch:   "This license is bound to a different device. Request a license for this device's fingerprint.",
		domain.LicenseStateCorrupt:          "The license file is damaged or unreadable. Please request a new license file.",
	},
	LocaleArabic: {
		domain.LicenseStateNoLicense:        "لا يوجد ترخيص مثبت. قم باستيراد ملف الترخيص لتفعيل البرنامج.",
		domain.LicenseStateActive:           "الترخيص مفعل.",
		domain.LicenseStateTrialActive:      "النسخة التجريبية مفعلة.",
		domain.LicenseStateExpired:          "انتهت صلاحية الترخيص. يرجى طلب ملف ترخيص مجدد.",
		domain.LicenseStateInvalidSignature: "توقيع الترخيص غير صالح. ربما تم تعديل الملف، يرجى طلب ملف ترخيص جديد.",
		domain.LicenseStateNotYetValid:      "الترخيص غير ساري بعد. تحقق من تاريخ النظام أو انتظر تاريخ بدء الترخيص.",
		domain.LicenseStateDeviceMismatch:   "هذا الترخيص مرتبط بجهاز آخر. اطلب ترخيصاً لبصمة هذا الجهاز.",
		domain.LicenseStateCorrupt:          "ملف الترخيص تالف أو غير قابل للقراءة. يرجى طلب ملف ترخيص جديد.",
	},
}

// Message returns the localized message for a state.
func Message(locale Locale, state domain.LicenseState) string {
	if msgs, ok := messageCatalog[locale]; ok {
		if msg, ok := msgs[state]; ok {
			return msg
		}
	}
	return messageCatalog[DefaultLocale][state]
}

// newStatus builds a status in the given locale. CORRUPT and NO_LICENSE
// never carry details.
func newStatus(locale Locale, state domain.LicenseState, details *domain.LicenseDetails) domain.LicenseStatus {
	if state == domain.LicenseStateCorrupt || state == domain.LicenseStateNoLicense {
		details = nil
	}
	return domain.LicenseStatus{
		Status:  state,
		Message: Message(locale, state),
		Details: details,
	}
}
