// Package dataset produces the youtube_trending CSV that the warehouse loads:
// either synthesized from a seeded generator or picked out of a downloaded
// export directory.
package dataset

// Columns is the header of the dataset CSV, in file order.
var Columns = []string{
	"video_id", "trending_date", "title", "channel_title", "category_id",
	"category_name", "publish_time", "tags", "views", "likes", "dislikes",
	"comment_count", "comments_disabled", "ratings_disabled",
	"description", "country",
}

// Category is a platform video category.
type Category struct {
	ID   int
	Name string
}

// Categories lists the platform categories in ID order.
var Categories = []Category{
	{1, "Film & Animation"},
	{2, "Autos & Vehicles"},
	{10, "Music"},
	{15, "Pets & Animals"},
	{17, "Sports"},
	{19, "Travel & Events"},
	{20, "Gaming"},
	{22, "People & Blogs"},
	{23, "Comedy"},
	{24, "Entertainment"},
	{25, "News & Politics"},
	{26, "Howto & Style"},
	{27, "Education"},
	{28, "Science & Technology"},
	{29, "Nonprofits & Activism"},
}

// CategoryName returns the name for id, or "Unknown".
func CategoryName(id int) string {
	for _, c := range Categories {
		if c.ID == id {
			return c.Name
		}
	}
	return "Unknown"
}

// Countries are the markets a video can trend in.
var Countries = []string{"US", "IN", "GB", "CA", "AU", "DE", "FR", "BR", "JP", "MX"}

// Channel is a channel and the category it usually uploads in.
type Channel struct {
	Title      string
	CategoryID int
}

// Channels is the fixed set of uploading channels.
var Channels = []Channel{
	{"PewDiePie", 20}, {"T-Series", 10}, {"MrBeast", 24},
	{"Dude Perfect", 17}, {"Cocomelon", 1}, {"SETIndia", 24},
	{"5-Minute Crafts", 26}, {"WWE", 17}, {"Zee Music", 10},
	{"Like Nastya", 22}, {"Vlad and Niki", 22}, {"Markiplier", 20},
	{"BLACKPINK", 10}, {"BTS", 10}, {"NBA", 17},
	{"ESPN", 17}, {"CNN", 25}, {"BBC News", 25},
	{"Vox", 27}, {"TED", 27}, {"Kurzgesagt", 27},
	{"Veritasium", 28}, {"3Blue1Brown", 27}, {"Linus Tech Tips", 28},
	{"MKBHD", 28}, {"Tasty", 26}, {"Gordon Ramsay", 26},
	{"Smosh", 23}, {"Saturday Night Live", 23}, {"CollegeHumor", 23},
	{"Jimmy Fallon", 24}, {"Ellen", 24}, {"GoodMythicalMorning", 22},
	{"Vice", 25}, {"NowThis News", 25}, {"Lofi Girl", 10},
	{"Sony Music", 10}, {"Universal Music", 10}, {"Warner Music", 10},
	{"A24", 1}, {"Marvel", 1}, {"DC", 1},
}

var titleTemplates = []string{
	"I Spent {n} Days {action}",
	"{action} for {n} Hours Straight",
	"The Truth About {topic}",
	"Why {topic} Changed Everything",
	"We Tried {topic} So You Don't Have To",
	"{n} Things You Didn't Know About {topic}",
	"How {topic} Actually Works",
	"World's {superlative} {topic}",
	"Building {topic} From Scratch",
	"{topic} Is Not What You Think",
	"I Challenged {topic}",
	"Rating {topic} With {celebrity}",
	"Reacting To {topic}",
	"{n} vs 1: {topic} Edition",
	"The REAL Reason Behind {topic}",
}

var titleCounts = []string{"1", "3", "7", "10", "24", "30", "100", "1000"}

var topics = []string{
	"YouTube", "TikTok", "AI", "Space", "the Ocean", "the Government",
	"Minecraft", "100 Fans", "this Challenge", "Amazon", "the Internet",
	"Music", "Food", "Science", "History", "Money", "Climate Change",
	"the Algorithm", "Famous YouTubers", "this Experiment",
}

var actions = []string{
	"Surviving on $1", "Living Underground", "Eating Only Pizza",
	"Building a House", "Learning a New Language", "Swimming with Sharks",
	"Coding an App", "Breaking a World Record",
}

var superlatives = []string{
	"Largest", "Smallest", "Fastest", "Cheapest", "Most Expensive",
	"Most Dangerous", "Rarest",
}

var celebrities = []string{
	"MrBeast", "PewDiePie", "a Billionaire", "100 Kids", "an Expert",
	"my Friends", "Strangers",
}

// baseViews is the median view count per category.
var baseViews = map[int]float64{
	10: 8_000_000, 24: 5_000_000, 17: 4_000_000,
	20: 6_000_000, 22: 3_000_000, 23: 3_500_000,
	25: 2_000_000, 27: 1_500_000, 28: 1_800_000,
	26: 2_500_000, 1: 4_500_000,
}

const defaultBaseViews = 2_000_000

const videoIDAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789_-"
