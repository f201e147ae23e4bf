package ai

import "fmt"

// SystemPrompt pins the advisor persona. The service targets the Israeli
// job market, so the instructions are in Hebrew like the answers it expects.
const SystemPrompt = "אתה יועץ קריירה מקצועי ישראלי המתמחה בהתאמת מקצועות על בסיס ניתוח טקסט. אתה מחזיר תמיד JSON תקין בפורמט המבוקש."

const userPromptTemplate = `אתה יועץ קריירה מקצועי. נתח את הטקסט הבא על המשתמש והמלץ על 3 מקצועות המתאימים ביותר עבורו.

טקסט המשתמש:
"%s"

החזר JSON בפורמט הבא בדיוק (ללא טקסט נוסף):
{
  "careers": [
    {
      "name": "שם המקצוע בעברית",
      "explanation": "הסבר קצר למה המקצוע מתאים למשתמש (2-3 משפטים)",
      "path": [
        "שלב 1 במסלול",
        "שלב 2 במסלול",
        "שלב 3 במסלול",
        "שלב 4 במסלול",
        "שלב 5 במסלול"
      ],
      "salary": "טווח משכורות בשקלים, לדוגמה: 15,000 - 30,000 ₪"
    }
  ]
}

חשוב:
- המלץ על 3 מקצועות בדיוק
- השתמש בשמות מקצועות ישראליים/עבריים
- טווח המשכורות צריך להיות ריאלי לשוק הישראלי
- המסלול צריך להיות מעשי וישים
- כל מקצוע צריך להתאים לכישורים ולתחומי העניין שהוזכרו`

// BuildPrompt returns the system and user prompts for a recommendation
// request. The user text is embedded verbatim; no sanitization happens here.
func BuildPrompt(userText string) (systemPrompt, userPrompt string) {
	return SystemPrompt, fmt.Sprintf(userPromptTemplate, userText)
}
