package service

import (
	"fmt"
	"strings"

	"jobboard_backend/internal/extraction/transport"
)

// Option categories offered to the model as masters.
const (
	CategoryHolidays     = "holidays"
	CategoryBenefits     = "benefits"
	CategoryRequirements = "requirements"
	CategoryTags         = "tags"
)

// MasterCategories are loaded for every extraction, in prompt order.
var MasterCategories = []string{CategoryHolidays, CategoryBenefits, CategoryRequirements, CategoryTags}

// Masters holds option labels per category.
type Masters map[string][]string

func (m Masters) joined(category string) string {
	return strings.Join(m[category], ", ")
}

const outputTemplate = `{"title":"","area":"","type":"","salary":"","category":"","tags":[],"description":"","requirements":[],"working_hours":"","holidays":[],"benefits":[],"selection_process":"","nearest_station":"","location_notes":"","salary_type":"","raise_info":"","bonus_info":"","commute_allowance":"","job_category_detail":"","hourly_wage":0,"salary_description":"","period":"","start_date":"","workplace_name":"","workplace_address":"","workplace_access":"","attire":"","attire_type":"","hair_style":"","client_company_name":"","training_period":"","training_salary":"","actual_work_hours":"","work_days_per_week":"","end_date":"","nail_policy":"","shift_notes":"","general_notes":"","company_name":"","industry":"","company_overview":"","company_size":"","annual_salary_min":0,"annual_salary_max":0,"overtime_hours":"","annual_holidays":0,"probation_period":"","probation_details":"","appeal_points":"","welcome_requirements":""}`

// BuildSystemInstruction holds the fixed extraction rules and the masters.
func BuildSystemInstruction(m Masters) string {
	var b strings.Builder
	b.WriteString(`あなたはプロの求人コンサルタントAIです。PDF/画像/文書から求人情報をJSON形式で抽出してください。

## 抽出ルール

### title（求人タイトル）
- 時給1,500円以上→「【高時給】」、駅徒歩10分以内→「【駅チカ】」を含める
- 求職者が魅力を感じるタイトルにする

### description（仕事内容）
- 400〜600文字で記述。原文に基づき、やりがい・職場雰囲気・対象者を掘り下げる
- 架空のスケジュールや1日の流れは絶対に生成しない

### area（エリア）
- 都道府県+市区町村をスペース区切り（例: 東京都 大田区）。番地不要

### working_hours（勤務時間）
- 原文の時間をそのまま抽出。6時間超なら「（休憩1時間）」を追記

### salary関連
- salary: 給与テキスト（例: 時給1550〜1600円+交通費）
- salary_type: 「月給制」or「時給制」
- hourly_wage: 時給の数値のみ（例: 1400）
- salary_description: 給与補足情報
- raise_info / bonus_info / commute_allowance: 該当情報。なければ空文字

### 勤務条件
- period: 雇用期間（長期、3ヶ月以上等）
- start_date: 開始時期（即日、随時等）

### 勤務先情報
- workplace_name / workplace_address / workplace_access: 勤務先の名称・住所・アクセス
- nearest_station: 駅名のみ（路線名不要）
- location_notes: 駅からの距離等

### 服装・髪型
- attire: 一文で（例: オフィスカジュアル、ネイルOK）
- attire_type: ビジネスカジュアル/自由/スーツ/制服貸与/その他
- hair_style: 特に指定なし/明るくなければよし/その他

### 派遣専用項目（typeが派遣/紹介予定派遣の場合のみ抽出）
- client_company_name, training_period, training_salary, actual_work_hours,
  work_days_per_week, end_date, nail_policy, shift_notes, general_notes

### 正社員専用項目（typeが正社員/契約社員の場合のみ抽出）
- company_name, industry, company_overview, company_size
- annual_salary_min / annual_salary_max: 年収（万円、数値のみ）
- overtime_hours, annual_holidays（数値のみ）, probation_period, probation_details
- appeal_points, welcome_requirements

## マスタデータ（以下から選択）
`)
	fmt.Fprintf(&b, "holidays: %s\n", m.joined(CategoryHolidays))
	fmt.Fprintf(&b, "benefits: %s（最大5つ）\n", m.joined(CategoryBenefits))
	fmt.Fprintf(&b, "requirements: %s\n", m.joined(CategoryRequirements))
	fmt.Fprintf(&b, "tags: %s（2〜3個）\n\n", m.joined(CategoryTags))
	b.WriteString("## 出力JSON\n")
	b.WriteString(outputTemplate)
	b.WriteString("\n\nJSONのみ出力。配列フィールドは配列形式で。数値が不明な場合は0。")
	return b.String()
}

// BuildUserPrompt carries the mode-specific wording.
func BuildUserPrompt(mode string) string {
	if mode == transport.ModeAnonymous {
		return `以下の資料から求人情報を抽出してください。

## 匿名モード
- 企業名・店舗名・ブランド名は絶対に出力しない
- 「大手通信企業」「業界最大手」等の抽象表現に置換
- タイトル・説明文でも企業名はすべて伏せる
- JSONのみ出力`
	}
	return `以下の資料から求人情報を抽出し、求職者に魅力的に見える形で最適化してください。

## 通常モード
- タイトルは【アピールポイント】を含め魅力的に
- 例：「【未経験OK・高時給1500円】大手企業でのコールセンター/土日祝休み」
- JSONのみ出力`
}

// BuildRefinePrompt assembles the refine turn for the agent.
func BuildRefinePrompt(current map[string]any, instruction, jobType string, history []transport.ChatMessage, targets []string, m Masters, catalogue *Catalogue) string {
	var b strings.Builder

	b.WriteString("## 会話の履歴（最新10件）\n")
	if len(history) > 10 {
		history = history[len(history)-10:]
	}
	if len(history) == 0 {
		b.WriteString("（この会話の最初です）\n")
	}
	for _, msg := range history {
		fmt.Fprintf(&b, "%s: %s\n", msg.Role, msg.Content)
	}

	b.WriteString("\n## 現在の求人データ\n")
	for _, key := range sortedKeys(current) {
		fmt.Fprintf(&b, "  %s: %s\n", key, formatValue(current[key]))
	}

	fmt.Fprintf(&b, "\n## 最新のユーザー指示\n%s\n", instruction)

	b.WriteString("\n## 検出された対象フィールド\n")
	if len(targets) == 0 {
		b.WriteString("（ユーザーの指示から自動的に抽出します）\n")
	} else {
		labels := make([]string, 0, len(targets))
		for _, f := range targets {
			labels = append(labels, catalogue.Label(f))
		}
		b.WriteString(strings.Join(labels, "、") + "\n")
	}

	b.WriteString("\n## マスタデータ\n")
	fmt.Fprintf(&b, "【休日・休暇 (holidays)】\n%s\n", m.joined(CategoryHolidays))
	fmt.Fprintf(&b, "【福利厚生 (benefits)】\n%s\n", m.joined(CategoryBenefits))
	fmt.Fprintf(&b, "【タグ (tags)】\n%s\n", m.joined(CategoryTags))

	b.WriteString("\n## 雇用形態別ルール\n")
	b.WriteString(jobTypeRules(jobType))
	return b.String()
}

func jobTypeRules(jobType string) string {
	switch jobType {
	case "派遣", "紹介予定派遣":
		return `- 企業名は必ず匿名化する（「大手メーカー」「IT企業」等に置換）
- タイトルパターン: 【時給{金額}円】【{訴求タグ}】{職種}@{最寄駅 or エリア}
- 重視項目: 時給、交通費、勤務時間・実働時間、服装・髪型・ネイル規定、就業開始時期
`
	case "正社員", "契約社員":
		return `- 企業名はそのまま記載する（匿名化しない）
- タイトルパターン: 【{訴求タグ}】{職種} | {企業の特徴}
- 重視項目: 年収レンジ、企業名・業界、企業概要、仕事の魅力、残業時間、年間休日
`
	default:
		return "（雇用形態未指定：汎用ルールで修正）\n"
	}
}

// RefineInstruction is the agent's standing instruction.
const RefineInstruction = `あなたは求人情報を改善・修正するプロの求人コンサルタントAIです。
1. ユーザーの指示から修正対象フィールドを抽出してください
2. 抽出されたフィールドのみを修正してください
3. その他のフィールドは現在の値を維持してください
4. マスタデータに準拠した表現を使用してください
5. 必須フィールド（title, area, salary, category）を空にしないでください
- description を修正する場合は400〜600文字程度。架空のスケジュールは生成しない

出力形式（JSONのみ、説明文やマークダウンは含めない）:
{"targetFields":["title"],"reasoning":"フィールド選定の理由","proposedChanges":{"title":"修正後のタイトル"}}
targetFieldsには実際に変更したフィールドのみを含めてください。`
